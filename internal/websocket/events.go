package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Inbound event names.
const (
	EventJoinVenue   = "join_venue"
	EventLeaveVenue  = "leave_venue"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
)

// Outbound event names.
const (
	EventUserJoined  = "user_joined"
	EventUserLeft    = "user_left"
	EventNewMessage  = "new_message"
	EventUserTyping  = "user_typing"
	EventVenueJoined = "venue_joined"
	EventVenueLeft   = "venue_left"
	EventMessageSent = "message_sent"
	EventError       = "error"
)

type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinVenuePayload struct {
	VenueId string `json:"venue_id" validate:"required,uuid"`
}

type LeaveVenuePayload struct {
	VenueId string `json:"venue_id" validate:"required,uuid"`
}

type SendMessagePayload struct {
	VenueId string `json:"venue_id" validate:"required,uuid"`
	Content string `json:"content" validate:"max=500"`
}

type TypingPayload struct {
	VenueId  string `json:"venue_id" validate:"required,uuid"`
	IsTyping bool   `json:"is_typing"`
}

type UserJoinedPayload struct {
	DisplayName string `json:"display_name"`
	MemberCount int    `json:"member_count"`
}

type UserLeftPayload struct {
	DisplayName string `json:"display_name"`
	MemberCount int    `json:"member_count"`
}

type NewMessagePayload struct {
	Id          uuid.UUID `json:"id"`
	Content     string    `json:"content"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserTypingPayload struct {
	DisplayName string `json:"display_name"`
	IsTyping    bool   `json:"is_typing"`
}

type VenueAckPayload struct {
	VenueId     uuid.UUID `json:"venue_id"`
	MemberCount int       `json:"member_count"`
}

type MessageSentPayload struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewFrame serializes an outbound event envelope. The payload types above
// cannot fail to marshal.
func NewFrame(event string, data interface{}) []byte {
	frame, _ := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	return frame
}
