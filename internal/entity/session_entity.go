package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an ephemeral anonymous identity. ExpiresAt is fixed at creation
// and IsActive only ever transitions true -> false.
type Session struct {
	Id             uuid.UUID
	DisplayName    string
	UserAgent      string
	IpAddress      string
	IsActive       bool
	CreatedAt      time.Time
	ExpiresAt      time.Time
	LastActivityAt time.Time
}

// Identity is the authenticated view of a session carried by a validated
// token and bound to a websocket connection.
type Identity struct {
	SessionId   uuid.UUID
	DisplayName string
	Kind        string
}

const IdentityKindEphemeral = "ephemeral"
