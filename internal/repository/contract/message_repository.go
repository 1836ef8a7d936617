package contract

import (
	"context"
	"time"

	"venuechat-be/internal/entity"

	"github.com/google/uuid"
)

// MessageRepository is the ephemeral message store. Messages are append-only
// and never updated.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error

	// FindRecent returns up to limit messages for the venue created at or
	// after since, in chronological order.
	FindRecent(ctx context.Context, venueId uuid.UUID, since time.Time, limit int) ([]*entity.Message, error)

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	CountByVenue(ctx context.Context, venueId uuid.UUID) (int64, error)
}
