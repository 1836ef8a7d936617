package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"venuechat-be/internal/dto"
	"venuechat-be/internal/entity"
	"venuechat-be/internal/repository/contract"
	"venuechat-be/pkg/events"
	pktNats "venuechat-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	displayNameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	displayNameLength   = 6

	// Hot connections re-validate on every message; refreshing
	// last_activity_at more often than this buys nothing.
	activityRefreshInterval = time.Minute
)

type IAuthService interface {
	IssueEphemeralSession(ctx context.Context, userAgent, ipAddress string) (*dto.EphemeralSessionResponse, error)
	ValidateToken(ctx context.Context, tokenStr string) (*entity.Identity, error)
	ValidateSession(ctx context.Context, sessionId uuid.UUID) (*entity.Session, error)
	EndSession(ctx context.Context, sessionId uuid.UUID) error
}

type authService struct {
	sessionRepo    contract.SessionRepository
	eventPublisher *pktNats.Publisher
	jwtSecret      []byte
	sessionTTL     time.Duration
	activitySeen   *cache.Cache
}

func NewAuthService(sessionRepo contract.SessionRepository, eventPublisher *pktNats.Publisher, jwtSecret string, sessionTTL time.Duration) IAuthService {
	return &authService{
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
		jwtSecret:      []byte(jwtSecret),
		sessionTTL:     sessionTTL,
		activitySeen:   cache.New(activityRefreshInterval, 5*time.Minute),
	}
}

func generateDisplayName() (string, error) {
	suffix := make([]byte, displayNameLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(displayNameAlphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = displayNameAlphabet[n.Int64()]
	}
	return "guest_" + string(suffix), nil
}

func (s *authService) IssueEphemeralSession(ctx context.Context, userAgent, ipAddress string) (*dto.EphemeralSessionResponse, error) {
	displayName, err := generateDisplayName()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &entity.Session{
		Id:             uuid.New(),
		DisplayName:    displayName,
		UserAgent:      userAgent,
		IpAddress:      ipAddress,
		IsActive:       true,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.sessionTTL),
		LastActivityAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	claims := jwt.MapClaims{
		"session_id":   session.Id.String(),
		"display_name": session.DisplayName,
		"kind":         entity.IdentityKindEphemeral,
		"exp":          session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "SESSION_CREATED",
			Data: map[string]interface{}{
				"session_id":   session.Id,
				"display_name": session.DisplayName,
				"expires_at":   session.ExpiresAt,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_CREATED event: %v\n", err)
		}
	}

	return &dto.EphemeralSessionResponse{
		SessionId:   session.Id,
		DisplayName: session.DisplayName,
		Token:       signedToken,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// ValidateToken checks the token signature and claims, then cross-checks the
// live session record. A structurally valid, unexpired token is rejected once
// the backing session has been deactivated or swept.
func (s *authService) ValidateToken(ctx context.Context, tokenStr string) (*entity.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sessionIdStr, _ := claims["session_id"].(string)
	sessionId, err := uuid.Parse(sessionIdStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	displayName, _ := claims["display_name"].(string)
	kind, _ := claims["kind"].(string)

	if kind == entity.IdentityKindEphemeral {
		if _, err := s.ValidateSession(ctx, sessionId); err != nil {
			return nil, err
		}
	}

	return &entity.Identity{
		SessionId:   sessionId,
		DisplayName: displayName,
		Kind:        kind,
	}, nil
}

// ValidateSession requires a live, unexpired session record and refreshes its
// activity timestamp. An expired record is deactivated on first observation.
func (s *authService) ValidateSession(ctx context.Context, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := s.sessionRepo.FindById(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if session == nil || !session.IsActive {
		return nil, ErrSessionExpired
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.sessionRepo.MarkInactive(ctx, sessionId); err != nil {
			fmt.Printf("[WARN] Failed to deactivate expired session %s: %v\n", sessionId, err)
		}
		return nil, ErrSessionExpired
	}

	key := sessionId.String()
	if _, throttled := s.activitySeen.Get(key); !throttled {
		if err := s.sessionRepo.UpdateLastActivity(ctx, sessionId, time.Now()); err != nil {
			fmt.Printf("[WARN] Failed to refresh activity for session %s: %v\n", sessionId, err)
		} else {
			s.activitySeen.Set(key, struct{}{}, cache.DefaultExpiration)
		}
	}

	return session, nil
}

// EndSession is the explicit logout path. Deactivation is one-way; the row
// itself is reclaimed later by the sweeper.
func (s *authService) EndSession(ctx context.Context, sessionId uuid.UUID) error {
	if err := s.sessionRepo.MarkInactive(ctx, sessionId); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.activitySeen.Delete(sessionId.String())

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "SESSION_ENDED",
			Data: map[string]interface{}{
				"session_id": sessionId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_ENDED event: %v\n", err)
		}
	}
	return nil
}
