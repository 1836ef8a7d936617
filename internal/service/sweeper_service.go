package service

import (
	"context"
	"time"

	"venuechat-be/internal/pkg/logger"
	"venuechat-be/internal/repository/contract"
	"venuechat-be/pkg/events"
	pktNats "venuechat-be/pkg/nats"
)

// SweeperService periodically reclaims expired sessions and aged-out
// messages. It never touches live connections: a connection whose session
// was swept is rejected on its next validated operation and closed through
// the normal teardown path.
type SweeperService struct {
	sessionRepo    contract.SessionRepository
	messageRepo    contract.MessageRepository
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger

	interval     time.Duration
	sessionGrace time.Duration
	messageTTL   time.Duration

	stop chan struct{}
}

func NewSweeperService(
	sessionRepo contract.SessionRepository,
	messageRepo contract.MessageRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	interval, sessionGrace, messageTTL time.Duration,
) *SweeperService {
	return &SweeperService{
		sessionRepo:    sessionRepo,
		messageRepo:    messageRepo,
		eventPublisher: eventPublisher,
		logger:         log,
		interval:       interval,
		sessionGrace:   sessionGrace,
		messageTTL:     messageTTL,
		stop:           make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or the context is
// cancelled.
func (s *SweeperService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Sweeper", "Started", map[string]interface{}{
		"interval": s.interval.String(),
	})

	for {
		select {
		case <-ticker.C:
			s.RunSweep(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *SweeperService) Stop() {
	close(s.stop)
}

// RunSweep applies the three reclamation rules. Each rule is isolated: a
// failure in one is logged and the others still run.
func (s *SweeperService) RunSweep(ctx context.Context) {
	now := time.Now()
	var expired, inactive, purged int64

	// Hard expiry: past expires_at, active or not.
	n, err := s.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("Sweeper", "Failed to delete expired sessions", map[string]interface{}{"error": err.Error()})
	} else {
		expired = n
	}

	// Soft cleanup: deactivated sessions past the grace window.
	n, err = s.sessionRepo.DeleteInactiveBefore(ctx, now.Add(-s.sessionGrace))
	if err != nil {
		s.logger.Error("Sweeper", "Failed to delete inactive sessions", map[string]interface{}{"error": err.Error()})
	} else {
		inactive = n
	}

	// Message purge: unconditional past the retention horizon.
	n, err = s.messageRepo.DeleteOlderThan(ctx, now.Add(-s.messageTTL))
	if err != nil {
		s.logger.Error("Sweeper", "Failed to purge old messages", map[string]interface{}{"error": err.Error()})
	} else {
		purged = n
	}

	// Post-sweep gauge of sessions still live.
	active, err := s.sessionRepo.CountActive(ctx, now)
	if err != nil {
		s.logger.Warn("Sweeper", "Failed to count active sessions", map[string]interface{}{"error": err.Error()})
		active = -1
	}

	if expired > 0 || inactive > 0 || purged > 0 {
		s.logger.Info("Sweeper", "Sweep completed", map[string]interface{}{
			"expired_sessions":  expired,
			"inactive_sessions": inactive,
			"purged_messages":   purged,
			"active_sessions":   active,
		})
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "SWEEP_COMPLETED",
			Data: map[string]interface{}{
				"expired_sessions":  expired,
				"inactive_sessions": inactive,
				"purged_messages":   purged,
				"active_sessions":   active,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Sweeper", "Failed to publish SWEEP_COMPLETED event", map[string]interface{}{"error": err.Error()})
		}
	}
}
