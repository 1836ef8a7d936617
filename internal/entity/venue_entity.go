package entity

import (
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	Id          uuid.UUID
	Name        string
	Description string
	IsActive    bool
	ActiveUntil *time.Time
	CreatedAt   time.Time
}
