package entity

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id                uuid.UUID
	VenueId           uuid.UUID
	SenderSessionId   uuid.UUID
	SenderDisplayName string
	Content           string
	CreatedAt         time.Time
}
