package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"venuechat-be/internal/dto"
	"venuechat-be/internal/entity"
	"venuechat-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	maxMessageLength    = 500
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// BroadcastTopic is the in-process pipeline between message acceptance and
// hub fan-out. A single subscriber consumes it in FIFO order, so frames
// reach the hub in exactly the order sends were accepted.
const BroadcastTopic = "venue_broadcast"

const eventNewMessage = "new_message"

// BroadcastEnvelope is the payload published on BroadcastTopic.
type BroadcastEnvelope struct {
	VenueId uuid.UUID       `json:"venue_id"`
	Exclude string          `json:"exclude,omitempty"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

type IChatService interface {
	SendMessage(ctx context.Context, identity *entity.Identity, venueId uuid.UUID, content string) (*dto.MessageResponse, error)
	GetVenueMessages(ctx context.Context, venueId uuid.UUID, limit int) ([]*dto.MessageResponse, error)
}

type chatService struct {
	messageRepo   contract.MessageRepository
	pubSub        *gochannel.GoChannel
	historyWindow time.Duration

	// One mutex per venue so sends within a venue serialize at the
	// persistence step while venues stay independent.
	venueLocks sync.Map
}

func NewChatService(messageRepo contract.MessageRepository, pubSub *gochannel.GoChannel, historyWindow time.Duration) IChatService {
	return &chatService{
		messageRepo:   messageRepo,
		pubSub:        pubSub,
		historyWindow: historyWindow,
	}
}

func (s *chatService) venueLock(venueId uuid.UUID) *sync.Mutex {
	lock, _ := s.venueLocks.LoadOrStore(venueId, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// SendMessage validates, persists and queues a message for broadcast. The
// server assigns id and timestamp; client-supplied ordering is never
// trusted. Validation failures reach neither the store nor the room.
func (s *chatService) SendMessage(ctx context.Context, identity *entity.Identity, venueId uuid.UUID, content string) (*dto.MessageResponse, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if venueId == uuid.Nil {
		return nil, ErrInvalidVenue
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	lock := s.venueLock(venueId)
	lock.Lock()
	defer lock.Unlock()

	msg := &entity.Message{
		Id:                uuid.New(),
		VenueId:           venueId,
		SenderSessionId:   identity.SessionId,
		SenderDisplayName: identity.DisplayName,
		Content:           content,
		CreatedAt:         time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// Broadcast is best-effort: a publish failure must not fail a send
	// that already persisted.
	data, _ := json.Marshal(dto.MessageResponse{
		Id:          msg.Id,
		Content:     msg.Content,
		DisplayName: msg.SenderDisplayName,
		CreatedAt:   msg.CreatedAt,
	})
	envelope, _ := json.Marshal(BroadcastEnvelope{
		VenueId: venueId,
		Event:   eventNewMessage,
		Data:    data,
	})
	if err := s.pubSub.Publish(BroadcastTopic, message.NewMessage(watermill.NewUUID(), envelope)); err != nil {
		fmt.Printf("[WARN] Failed to queue broadcast for message %s: %v\n", msg.Id, err)
	}

	return &dto.MessageResponse{
		Id:          msg.Id,
		Content:     msg.Content,
		DisplayName: msg.SenderDisplayName,
		CreatedAt:   msg.CreatedAt,
	}, nil
}

// GetVenueMessages returns the venue's recent history, bounded to the
// privacy window, in chronological order.
func (s *chatService) GetVenueMessages(ctx context.Context, venueId uuid.UUID, limit int) ([]*dto.MessageResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	since := time.Now().Add(-s.historyWindow)
	messages, err := s.messageRepo.FindRecent(ctx, venueId, since, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	responses := make([]*dto.MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = &dto.MessageResponse{
			Id:          m.Id,
			Content:     m.Content,
			DisplayName: m.SenderDisplayName,
			CreatedAt:   m.CreatedAt,
		}
	}
	return responses, nil
}
