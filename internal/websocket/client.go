package websocket

import (
	"encoding/json"
	"time"

	"venuechat-be/internal/entity"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames carry at most a 500-char message plus envelope.
	maxFrameSize = 4096
)

// Client is a middleman between one websocket connection and the hub. It
// exists only in the Authenticated state: the gateway refuses the handshake
// before a Client is ever constructed. A client is never rebound to another
// identity; a new token requires a new connection.
type Client struct {
	gateway *ChatGateway

	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Process-local connection identifier.
	Id string

	// Identity bound at handshake time.
	Identity entity.Identity

	// Buffered channel of outbound frames.
	Send chan []byte
}

// reply queues a frame for this client only. Best-effort: a full buffer
// drops the frame rather than blocking the read loop.
func (c *Client) reply(frame []byte) {
	select {
	case c.Send <- frame:
	default:
	}
}

func (c *Client) replyError(code, message string) {
	c.reply(NewFrame(EventError, ErrorPayload{Code: code, Message: message}))
}

// readPump pumps inbound events from the websocket connection into the
// gateway dispatcher. Runs in the connection's handler goroutine; exiting it
// tears the connection down through the hub's unregister path.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.gateway.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"conn_id": c.Id,
					"error":   err.Error(),
				})
			}
			break
		}

		var event InboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.replyError("validation_error", "malformed event frame")
			continue
		}

		if fatal := c.gateway.dispatch(c, event); fatal {
			break
		}
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
