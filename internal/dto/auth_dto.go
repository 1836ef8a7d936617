package dto

import (
	"time"

	"github.com/google/uuid"
)

type EphemeralSessionResponse struct {
	SessionId   uuid.UUID `json:"session_id"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ValidateSessionResponse struct {
	Valid bool        `json:"valid"`
	User  IdentityDTO `json:"user"`
}

type IdentityDTO struct {
	SessionId   uuid.UUID `json:"session_id"`
	DisplayName string    `json:"display_name"`
	Kind        string    `json:"kind"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}
