package service

import "errors"

// Request validation failures. Rejected locally, never persisted.
var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message too long (max 500 characters)")
	ErrInvalidVenue   = errors.New("invalid venue id")
)

// Auth failures. Handshake-time failures disconnect; post-handshake failures
// are per-request error replies.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionExpired  = errors.New("session expired or invalid")
	ErrUnauthenticated = errors.New("not authenticated")
)

// ErrStorageUnavailable wraps store failures so callers can retry the single
// operation without tearing down the connection.
var ErrStorageUnavailable = errors.New("storage unavailable")
