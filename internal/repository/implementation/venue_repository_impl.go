package implementation

import (
	"context"
	"errors"

	"venuechat-be/internal/entity"
	"venuechat-be/internal/mapper"
	"venuechat-be/internal/model"
	"venuechat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VenueRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VenueMapper
}

func NewVenueRepository(db *gorm.DB) contract.VenueRepository {
	return &VenueRepositoryImpl{
		db:     db,
		mapper: mapper.NewVenueMapper(),
	}
}

func (r *VenueRepositoryImpl) FindActive(ctx context.Context) ([]*entity.Venue, error) {
	var models []*model.Venue
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	venues := make([]*entity.Venue, len(models))
	for i, m := range models {
		venues[i] = r.mapper.ToEntity(m)
	}
	return venues, nil
}

func (r *VenueRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	var m model.Venue
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
