package contract

import (
	"context"
	"time"

	"venuechat-be/internal/entity"

	"github.com/google/uuid"
)

// SessionRepository is the store for ephemeral identities. Last-write-wins
// per session id; concurrent reads and writes are expected.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkInactive(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes sessions whose ExpiresAt is before the cutoff,
	// active or not. Returns the number of rows removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteInactiveBefore removes deactivated sessions whose last activity
	// is older than the cutoff (the post-logout grace window).
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)

	CountActive(ctx context.Context, now time.Time) (int64, error)
}
