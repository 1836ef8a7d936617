package websocket

import (
	"context"
	"encoding/json"

	"venuechat-be/internal/pkg/logger"
	"venuechat-be/internal/service"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Broadcaster consumes the accepted-message pipeline and fans frames out
// through the hub. It is the only subscriber of the topic and processes
// envelopes sequentially, which preserves per-venue acceptance order all the
// way to the wire.
type Broadcaster struct {
	pubSub *gochannel.GoChannel
	hub    *Hub
	logger logger.ILogger
}

func NewBroadcaster(pubSub *gochannel.GoChannel, hub *Hub, log logger.ILogger) *Broadcaster {
	return &Broadcaster{
		pubSub: pubSub,
		hub:    hub,
		logger: log,
	}
}

func (b *Broadcaster) Start(ctx context.Context) error {
	messages, err := b.pubSub.Subscribe(ctx, service.BroadcastTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			b.process(msg)
		}
	}()

	return nil
}

func (b *Broadcaster) process(msg *message.Message) {
	var envelope service.BroadcastEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		b.logger.Error("Broadcaster", "Bad broadcast envelope", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	b.hub.BroadcastToVenue(envelope.VenueId, NewFrame(envelope.Event, json.RawMessage(envelope.Data)), envelope.Exclude)
	msg.Ack()
}
