package mapper

import (
	"venuechat-be/internal/entity"
	"venuechat-be/internal/model"
)

type VenueMapper struct{}

func NewVenueMapper() *VenueMapper {
	return &VenueMapper{}
}

func (m *VenueMapper) ToEntity(v *model.Venue) *entity.Venue {
	if v == nil {
		return nil
	}
	return &entity.Venue{
		Id:          v.Id,
		Name:        v.Name,
		Description: v.Description,
		IsActive:    v.IsActive,
		ActiveUntil: v.ActiveUntil,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *VenueMapper) ToModel(v *entity.Venue) *model.Venue {
	if v == nil {
		return nil
	}
	return &model.Venue{
		Id:          v.Id,
		Name:        v.Name,
		Description: v.Description,
		IsActive:    v.IsActive,
		ActiveUntil: v.ActiveUntil,
		CreatedAt:   v.CreatedAt,
	}
}
