package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"venuechat-be/internal/pkg/logger"
	"venuechat-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatGateway is the realtime entry point: it authenticates handshakes,
// binds connections to identities and dispatches inbound events.
type ChatGateway struct {
	hub         *Hub
	registry    *Registry
	authService service.IAuthService
	chatService service.IChatService
	validate    *validator.Validate
	logger      logger.ILogger
}

func NewChatGateway(hub *Hub, registry *Registry, authService service.IAuthService, chatService service.IChatService, log logger.ILogger) *ChatGateway {
	return &ChatGateway{
		hub:         hub,
		registry:    registry,
		authService: authService,
		chatService: chatService,
		validate:    validator.New(),
		logger:      log,
	}
}

// ServeWs handles the websocket handshake. A missing or invalid token
// refuses the connection outright; no partial state is created.
func (g *ChatGateway) ServeWs(c *fiber.Ctx) error {
	// Query param is the browser standard, Authorization header the
	// tooling standard.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	identity, err := g.authService.ValidateToken(c.Context(), tokenStr)
	if err != nil {
		g.logger.Warn("ChatGateway", "Handshake rejected", map[string]interface{}{"error": err.Error()})
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			gateway:  g,
			Hub:      g.hub,
			Conn:     conn,
			Id:       uuid.NewString(),
			Identity: *identity,
			Send:     make(chan []byte, 256),
		}
		g.hub.register <- client

		go client.writePump()
		client.readPump()
	})(c)
}

// dispatch routes one inbound event. Returns true when the connection must
// close (the bound session is no longer live).
func (g *ChatGateway) dispatch(c *Client, event InboundEvent) bool {
	switch event.Event {
	case EventJoinVenue:
		g.handleJoin(c, event.Data)
	case EventLeaveVenue:
		g.handleLeave(c, event.Data)
	case EventSendMessage:
		return g.handleSend(c, event.Data)
	case EventTyping:
		g.handleTyping(c, event.Data)
	default:
		c.replyError("validation_error", "unknown event: "+event.Event)
	}
	return false
}

func (g *ChatGateway) decode(c *Client, raw json.RawMessage, payload interface{}) bool {
	if err := json.Unmarshal(raw, payload); err != nil {
		c.replyError("validation_error", "malformed event payload")
		return false
	}
	if err := g.validate.Struct(payload); err != nil {
		c.replyError("validation_error", err.Error())
		return false
	}
	return true
}

func (g *ChatGateway) handleJoin(c *Client, raw json.RawMessage) {
	var payload JoinVenuePayload
	if !g.decode(c, raw, &payload) {
		return
	}
	venueId := uuid.MustParse(payload.VenueId)

	count, joined := g.registry.Join(venueId, Member{
		ConnId:      c.Id,
		SessionId:   c.Identity.SessionId,
		DisplayName: c.Identity.DisplayName,
	})
	if joined {
		g.hub.BroadcastToVenue(venueId, NewFrame(EventUserJoined, UserJoinedPayload{
			DisplayName: c.Identity.DisplayName,
			MemberCount: count,
		}), c.Id)
		g.logger.Info("ChatGateway", "Joined venue", map[string]interface{}{
			"venue_id":     venueId,
			"display_name": c.Identity.DisplayName,
			"member_count": count,
		})
	}
	c.reply(NewFrame(EventVenueJoined, VenueAckPayload{VenueId: venueId, MemberCount: count}))
}

func (g *ChatGateway) handleLeave(c *Client, raw json.RawMessage) {
	var payload LeaveVenuePayload
	if !g.decode(c, raw, &payload) {
		return
	}
	venueId := uuid.MustParse(payload.VenueId)

	count, left := g.registry.Leave(venueId, c.Id)
	if left {
		g.hub.BroadcastToVenue(venueId, NewFrame(EventUserLeft, UserLeftPayload{
			DisplayName: c.Identity.DisplayName,
			MemberCount: count,
		}), c.Id)
	}
	c.reply(NewFrame(EventVenueLeft, VenueAckPayload{VenueId: venueId, MemberCount: count}))
}

// handleSend re-checks session liveness before accepting the message: a
// swept or logged-out session is discovered here, and the connection is
// closed through the normal teardown path. The send itself runs on a
// background context so an accepted message survives the connection
// closing mid-flight.
func (g *ChatGateway) handleSend(c *Client, raw json.RawMessage) bool {
	var payload SendMessagePayload
	if !g.decode(c, raw, &payload) {
		return false
	}
	venueId := uuid.MustParse(payload.VenueId)

	if _, err := g.authService.ValidateSession(context.Background(), c.Identity.SessionId); err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			c.replyError("storage_unavailable", "failed to send message, try again")
			return false
		}
		c.replyError("auth_error", service.ErrSessionExpired.Error())
		return true
	}

	message, err := g.chatService.SendMessage(context.Background(), &c.Identity, venueId, payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrMessageTooLong), errors.Is(err, service.ErrInvalidVenue):
			c.replyError("validation_error", err.Error())
		case errors.Is(err, service.ErrStorageUnavailable):
			c.replyError("storage_unavailable", "failed to send message, try again")
		default:
			c.replyError("internal_error", "failed to send message")
		}
		return false
	}

	c.reply(NewFrame(EventMessageSent, MessageSentPayload{Id: message.Id, CreatedAt: message.CreatedAt}))
	return false
}

func (g *ChatGateway) handleTyping(c *Client, raw json.RawMessage) {
	var payload TypingPayload
	if !g.decode(c, raw, &payload) {
		return
	}
	venueId := uuid.MustParse(payload.VenueId)

	// Typing is a low-priority signal: no ack, no ordering relative to
	// messages.
	g.hub.BroadcastToVenue(venueId, NewFrame(EventUserTyping, UserTypingPayload{
		DisplayName: c.Identity.DisplayName,
		IsTyping:    payload.IsTyping,
	}), c.Id)
}
