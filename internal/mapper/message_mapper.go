package mapper

import (
	"venuechat-be/internal/entity"
	"venuechat-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:                msg.Id,
		VenueId:           msg.VenueId,
		SenderSessionId:   msg.SenderSessionId,
		SenderDisplayName: msg.SenderDisplayName,
		Content:           msg.Content,
		CreatedAt:         msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:                msg.Id,
		VenueId:           msg.VenueId,
		SenderSessionId:   msg.SenderSessionId,
		SenderDisplayName: msg.SenderDisplayName,
		Content:           msg.Content,
		CreatedAt:         msg.CreatedAt,
	}
}
