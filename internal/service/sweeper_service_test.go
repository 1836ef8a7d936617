package service

import (
	"context"
	"testing"
	"time"

	"venuechat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func seedSession(repo *fakeSessionRepo, active bool, expiresAt, lastActivity time.Time) uuid.UUID {
	id := uuid.New()
	repo.sessions[id] = &entity.Session{
		Id:             id,
		DisplayName:    "guest_sweep1",
		IsActive:       active,
		CreatedAt:      time.Now().Add(-48 * time.Hour),
		ExpiresAt:      expiresAt,
		LastActivityAt: lastActivity,
	}
	return id
}

func TestRunSweep(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	messageRepo := &fakeMessageRepo{}
	now := time.Now()

	// Past hard expiry, still marked active. Must go.
	expired := seedSession(sessionRepo, true, now.Add(-time.Hour), now.Add(-time.Hour))
	// Logged out more than the grace window ago. Must go.
	staleInactive := seedSession(sessionRepo, false, now.Add(time.Hour), now.Add(-25*time.Hour))
	// Logged out recently, still within grace. Must stay.
	freshInactive := seedSession(sessionRepo, false, now.Add(time.Hour), now.Add(-time.Hour))
	// Live session. Must stay.
	live := seedSession(sessionRepo, true, now.Add(23*time.Hour), now)

	messageRepo.messages = []*entity.Message{
		{Id: uuid.New(), VenueId: uuid.New(), Content: "old", CreatedAt: now.Add(-25 * time.Hour)},
		{Id: uuid.New(), VenueId: uuid.New(), Content: "new", CreatedAt: now.Add(-time.Hour)},
	}

	sweeper := NewSweeperService(sessionRepo, messageRepo, nil, nopLogger{}, time.Hour, 24*time.Hour, 24*time.Hour)
	sweeper.RunSweep(context.Background())

	assert.Nil(t, sessionRepo.get(expired))
	assert.Nil(t, sessionRepo.get(staleInactive))
	assert.NotNil(t, sessionRepo.get(freshInactive))
	assert.NotNil(t, sessionRepo.get(live))

	assert.Equal(t, 1, messageRepo.count())
	assert.Equal(t, "new", messageRepo.messages[0].Content)

	// The completion report includes the live-session gauge.
	assert.Equal(t, 1, sessionRepo.countActiveCalls)
}

func TestRunSweepRulesAreIsolated(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	sessionRepo.failDeleteExpired = true
	messageRepo := &fakeMessageRepo{}
	now := time.Now()

	staleInactive := seedSession(sessionRepo, false, now.Add(time.Hour), now.Add(-25*time.Hour))
	messageRepo.messages = []*entity.Message{
		{Id: uuid.New(), VenueId: uuid.New(), Content: "old", CreatedAt: now.Add(-25 * time.Hour)},
	}

	sweeper := NewSweeperService(sessionRepo, messageRepo, nil, nopLogger{}, time.Hour, 24*time.Hour, 24*time.Hour)
	sweeper.RunSweep(context.Background())

	// The expired-session rule failed; the other two rules still ran.
	assert.Nil(t, sessionRepo.get(staleInactive))
	assert.Equal(t, 0, messageRepo.count())
}

func TestSweeperStop(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	messageRepo := &fakeMessageRepo{}

	sweeper := NewSweeperService(sessionRepo, messageRepo, nil, nopLogger{}, time.Hour, 24*time.Hour, 24*time.Hour)

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	sweeper.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
