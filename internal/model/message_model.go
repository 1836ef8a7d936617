package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	VenueId           uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_venue_created"`
	SenderSessionId   uuid.UUID `gorm:"type:uuid;not null"`
	SenderDisplayName string    `gorm:"type:varchar(64);not null"`
	Content           string    `gorm:"type:varchar(500);not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index:idx_messages_venue_created"`
}

func (Message) TableName() string {
	return "chat_messages"
}
