package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName    string    `gorm:"type:varchar(64);not null"`
	UserAgent      string    `gorm:"type:text"`
	IpAddress      string    `gorm:"type:varchar(64)"`
	IsActive       bool      `gorm:"not null;default:true;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	ExpiresAt      time.Time `gorm:"not null;index"`
	LastActivityAt time.Time `gorm:"not null"`
}

func (Session) TableName() string {
	return "temp_sessions"
}
