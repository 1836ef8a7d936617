package model

import (
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(128);not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true;index"`
	ActiveUntil *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Venue) TableName() string {
	return "venues"
}
