package dto

import "github.com/google/uuid"

type NearbyVenueResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
}

type VenueDetailResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsActive     bool      `json:"is_active"`
	MessageCount int64     `json:"message_count"`
	ActiveUsers  int       `json:"active_users"`
}
