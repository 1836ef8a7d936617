package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"venuechat-be/internal/dto"
	"venuechat-be/internal/entity"
	"venuechat-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message

	failCreate bool
	lastSince  time.Time
	lastLimit  int
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if f.failCreate {
		return errRepoDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *message
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeMessageRepo) FindRecent(ctx context.Context, venueId uuid.UUID, since time.Time, limit int) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSince = since
	f.lastLimit = limit

	var out []*entity.Message
	for _, m := range f.messages {
		if m.VenueId == venueId && !m.CreatedAt.Before(since) {
			copied := *m
			out = append(out, &copied)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*entity.Message
	var n int64
	for _, m := range f.messages {
		if m.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return n, nil
}

func (f *fakeMessageRepo) CountByVenue(ctx context.Context, venueId uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.VenueId == venueId {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

var _ contract.MessageRepository = (*fakeMessageRepo)(nil)

func newTestChatService(repo contract.MessageRepository) (IChatService, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	return NewChatService(repo, pubSub, 2*time.Hour), pubSub
}

func testIdentity() *entity.Identity {
	return &entity.Identity{
		SessionId:   uuid.New(),
		DisplayName: "guest_abc123",
		Kind:        entity.IdentityKindEphemeral,
	}
}

func TestSendMessageValidation(t *testing.T) {
	tests := []struct {
		name     string
		identity *entity.Identity
		content  string
		wantErr  error
	}{
		{name: "empty", identity: testIdentity(), content: "", wantErr: ErrEmptyMessage},
		{name: "whitespace only", identity: testIdentity(), content: "   \n\t ", wantErr: ErrEmptyMessage},
		{name: "over limit", identity: testIdentity(), content: strings.Repeat("a", 501), wantErr: ErrMessageTooLong},
		{name: "over limit multibyte", identity: testIdentity(), content: strings.Repeat("é", 501), wantErr: ErrMessageTooLong},
		{name: "no identity", identity: nil, content: "hello", wantErr: ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeMessageRepo{}
			svc, _ := newTestChatService(repo)

			_, err := svc.SendMessage(context.Background(), tt.identity, uuid.New(), tt.content)
			assert.ErrorIs(t, err, tt.wantErr)

			// A rejected message must leave no trace in the store.
			assert.Equal(t, 0, repo.count())
		})
	}
}

func TestSendMessageRejectsNilVenue(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc, _ := newTestChatService(repo)

	_, err := svc.SendMessage(context.Background(), testIdentity(), uuid.Nil, "hello")
	assert.ErrorIs(t, err, ErrInvalidVenue)
	assert.Equal(t, 0, repo.count())
}

func TestSendMessageLimitIsInRunes(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc, _ := newTestChatService(repo)

	// 500 multibyte runes is well over 500 bytes but still within limit.
	_, err := svc.SendMessage(context.Background(), testIdentity(), uuid.New(), strings.Repeat("é", 500))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count())
}

func TestSendMessageAssignsServerFields(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc, _ := newTestChatService(repo)
	identity := testIdentity()
	venue := uuid.New()

	res, err := svc.SendMessage(context.Background(), identity, venue, "  hello there  ")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Equal(t, "hello there", res.Content)
	assert.Equal(t, identity.DisplayName, res.DisplayName)
	assert.WithinDuration(t, time.Now(), res.CreatedAt, time.Second)

	repo.mu.Lock()
	stored := repo.messages[0]
	repo.mu.Unlock()
	assert.Equal(t, res.Id, stored.Id)
	assert.Equal(t, venue, stored.VenueId)
	assert.Equal(t, identity.SessionId, stored.SenderSessionId)
}

func TestSendMessageStorageDown(t *testing.T) {
	repo := &fakeMessageRepo{failCreate: true}
	svc, _ := newTestChatService(repo)

	_, err := svc.SendMessage(context.Background(), testIdentity(), uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestSendMessageBroadcastOrder(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc, pubSub := newTestChatService(repo)
	venue := uuid.New()
	identity := testIdentity()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	frames, err := pubSub.Subscribe(ctx, BroadcastTopic)
	require.NoError(t, err)

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		_, err := svc.SendMessage(context.Background(), identity, venue, c)
		require.NoError(t, err)
	}

	for _, want := range contents {
		select {
		case msg := <-frames:
			var envelope BroadcastEnvelope
			require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
			assert.Equal(t, venue, envelope.VenueId)
			assert.Equal(t, "new_message", envelope.Event)

			var payload dto.MessageResponse
			require.NoError(t, json.Unmarshal(envelope.Data, &payload))
			assert.Equal(t, want, payload.Content)
			msg.Ack()
		case <-ctx.Done():
			t.Fatal("timed out waiting for broadcast frame")
		}
	}
}

func TestGetVenueMessagesBounds(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default", limit: 0, wantLimit: 50},
		{name: "explicit", limit: 25, wantLimit: 25},
		{name: "clamped", limit: 1000, wantLimit: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeMessageRepo{}
			svc, _ := newTestChatService(repo)

			_, err := svc.GetVenueMessages(context.Background(), uuid.New(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, repo.lastLimit)
			assert.WithinDuration(t, time.Now().Add(-2*time.Hour), repo.lastSince, time.Minute)
		})
	}
}

func TestGetVenueMessagesFiltersWindow(t *testing.T) {
	repo := &fakeMessageRepo{}
	venue := uuid.New()
	now := time.Now()
	repo.messages = []*entity.Message{
		{Id: uuid.New(), VenueId: venue, Content: "ancient", CreatedAt: now.Add(-3 * time.Hour)},
		{Id: uuid.New(), VenueId: venue, Content: "recent", CreatedAt: now.Add(-10 * time.Minute)},
		{Id: uuid.New(), VenueId: uuid.New(), Content: "other venue", CreatedAt: now},
	}
	svc, _ := newTestChatService(repo)

	res, err := svc.GetVenueMessages(context.Background(), venue, 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "recent", res[0].Content)
}
