package implementation

import (
	"context"
	"time"

	"venuechat-be/internal/entity"
	"venuechat-be/internal/mapper"
	"venuechat-be/internal/model"
	"venuechat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindRecent(ctx context.Context, venueId uuid.UUID, since time.Time, limit int) ([]*entity.Message, error) {
	var models []*model.Message
	err := r.db.WithContext(ctx).
		Where("venue_id = ? AND created_at >= ?", venueId, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Query newest-first to honor the limit, return chronological.
	messages := make([]*entity.Message, len(models))
	for i, m := range models {
		messages[len(models)-1-i] = r.mapper.ToEntity(m)
	}
	return messages, nil
}

func (r *MessageRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.Message{})
	return res.RowsAffected, res.Error
}

func (r *MessageRepositoryImpl) CountByVenue(ctx context.Context, venueId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("venue_id = ?", venueId).
		Count(&count).Error
	return count, err
}
