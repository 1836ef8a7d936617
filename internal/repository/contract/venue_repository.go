package contract

import (
	"context"

	"venuechat-be/internal/entity"

	"github.com/google/uuid"
)

type VenueRepository interface {
	FindActive(ctx context.Context) ([]*entity.Venue, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
}
