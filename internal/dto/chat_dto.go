package dto

import (
	"time"

	"github.com/google/uuid"
)

type MessageResponse struct {
	Id          uuid.UUID `json:"id"`
	Content     string    `json:"content"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
