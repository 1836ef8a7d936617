package mapper

import (
	"venuechat-be/internal/entity"
	"venuechat-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:             s.Id,
		DisplayName:    s.DisplayName,
		UserAgent:      s.UserAgent,
		IpAddress:      s.IpAddress,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
		ExpiresAt:      s.ExpiresAt,
		LastActivityAt: s.LastActivityAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:             s.Id,
		DisplayName:    s.DisplayName,
		UserAgent:      s.UserAgent,
		IpAddress:      s.IpAddress,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
		ExpiresAt:      s.ExpiresAt,
		LastActivityAt: s.LastActivityAt,
	}
}
