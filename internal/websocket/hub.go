package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"venuechat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "venue_events"

// Hub owns every open connection and drives join/leave bookkeeping through
// the presence registry. Venue fan-out is best-effort per member: a slow
// client loses the frame, it never blocks the rest of the room.
type Hub struct {
	// Registered clients map: ConnId -> Client
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	registry *Registry

	// instanceId tags frames published to Redis so this instance skips its
	// own re-deliveries.
	instanceId string

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

// clusterFrame is the Redis pub/sub envelope for cross-instance broadcast.
type clusterFrame struct {
	Origin  string          `json:"origin"`
	VenueId uuid.UUID       `json:"venue_id"`
	Exclude string          `json:"exclude,omitempty"`
	Message json.RawMessage `json:"message"`
}

func NewHub(registry *Registry, rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		registry:   registry,
		instanceId: uuid.NewString(),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"conn_id":      client.Id,
				"display_name": client.Identity.DisplayName,
			})

		case client := <-h.unregister:
			h.handleDisconnect(client)
		}
	}
}

// handleDisconnect removes the connection from every room it joined and
// notifies each room exactly once. Leave is idempotent, so a disconnect
// racing an explicit leave_venue produces a single user_left, not two.
func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client.Id]
	if known {
		delete(h.clients, client.Id)
	}
	h.mu.Unlock()
	if !known {
		return
	}

	for _, venueId := range h.registry.RoomsOf(client.Id) {
		count, left := h.registry.Leave(venueId, client.Id)
		if !left {
			continue
		}
		h.BroadcastToVenue(venueId, NewFrame(EventUserLeft, UserLeftPayload{
			DisplayName: client.Identity.DisplayName,
			MemberCount: count,
		}), client.Id)
	}

	close(client.Send)
	h.logger.Info("Hub", "Client unregistered", map[string]interface{}{
		"conn_id":      client.Id,
		"display_name": client.Identity.DisplayName,
	})
}

// BroadcastToVenue fans a frame out to the current member snapshot of the
// venue, skipping excludeConnId, and republishes it for other instances.
func (h *Hub) BroadcastToVenue(venueId uuid.UUID, frame []byte, excludeConnId string) {
	h.broadcastLocal(venueId, frame, excludeConnId)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterFrame{
			Origin:  h.instanceId,
			VenueId: venueId,
			Exclude: excludeConnId,
			Message: frame,
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) broadcastLocal(venueId uuid.UUID, frame []byte, excludeConnId string) {
	members := h.registry.MembersOf(venueId)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, m := range members {
		if m.ConnId == excludeConnId {
			continue
		}
		client, ok := h.clients[m.ConnId]
		if !ok {
			// Removed between snapshot and delivery; best-effort.
			continue
		}
		select {
		case client.Send <- frame:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping frame", map[string]interface{}{
				"conn_id":  m.ConnId,
				"venue_id": venueId,
			})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Warn("Hub", "Bad cluster frame", map[string]interface{}{"error": err.Error()})
			continue
		}
		if frame.Origin == h.instanceId {
			continue
		}
		h.broadcastLocal(frame.VenueId, frame.Message, frame.Exclude)
	}
}
