package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"venuechat-be/internal/service"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishEnvelope(t *testing.T, pubSub *gochannel.GoChannel, envelope service.BroadcastEnvelope) {
	t.Helper()
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(service.BroadcastTopic, message.NewMessage(watermill.NewUUID(), payload)))
}

func TestBroadcasterDrainsTopicInOrder(t *testing.T) {
	h, registry := newTestHub()
	venue := uuid.New()
	receiver := newTestClient("receiver", "guest_ooo555", 16)
	attach(h, registry, receiver, venue)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	b := NewBroadcaster(pubSub, h, silentLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.Start(ctx))

	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		data, err := json.Marshal(map[string]string{"content": content})
		require.NoError(t, err)
		publishEnvelope(t, pubSub, service.BroadcastEnvelope{
			VenueId: venue,
			Event:   "new_message",
			Data:    data,
		})
	}

	for _, want := range contents {
		select {
		case raw := <-receiver.Send:
			frame := decodeFrame(t, raw)
			assert.Equal(t, "new_message", frame.Event)

			var payload struct {
				Content string `json:"content"`
			}
			require.NoError(t, json.Unmarshal(frame.Data, &payload))
			assert.Equal(t, want, payload.Content)
		case <-ctx.Done():
			t.Fatal("timed out waiting for fan-out frame")
		}
	}
}

func TestBroadcasterHonorsExclude(t *testing.T) {
	h, registry := newTestHub()
	venue := uuid.New()
	sender := newTestClient("sender", "guest_ppp666", 8)
	peer := newTestClient("peer", "guest_qqq777", 8)
	attach(h, registry, sender, venue)
	attach(h, registry, peer, venue)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	b := NewBroadcaster(pubSub, h, silentLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.Start(ctx))

	data, err := json.Marshal(map[string]string{"content": "hi"})
	require.NoError(t, err)
	publishEnvelope(t, pubSub, service.BroadcastEnvelope{
		VenueId: venue,
		Exclude: "sender",
		Event:   "new_message",
		Data:    data,
	})

	select {
	case <-peer.Send:
	case <-ctx.Done():
		t.Fatal("timed out waiting for fan-out frame")
	}
	assert.Len(t, sender.Send, 0)
}
