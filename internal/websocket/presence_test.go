package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func member(connId string) Member {
	return Member{
		ConnId:      connId,
		SessionId:   uuid.New(),
		DisplayName: "guest_" + connId,
	}
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	venue := uuid.New()

	count, added := r.Join(venue, member("c1"))
	assert.Equal(t, 1, count)
	assert.True(t, added)

	count, added = r.Join(venue, member("c1"))
	assert.Equal(t, 1, count)
	assert.False(t, added)

	count, added = r.Join(venue, member("c2"))
	assert.Equal(t, 2, count)
	assert.True(t, added)
}

func TestRegistryLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	venue := uuid.New()
	r.Join(venue, member("c1"))
	r.Join(venue, member("c2"))

	count, removed := r.Leave(venue, "c1")
	assert.Equal(t, 1, count)
	assert.True(t, removed)

	count, removed = r.Leave(venue, "c1")
	assert.Equal(t, 1, count)
	assert.False(t, removed)

	// Leaving a venue that was never joined is a no-op too.
	count, removed = r.Leave(uuid.New(), "c1")
	assert.Equal(t, 0, count)
	assert.False(t, removed)
}

func TestRegistryEmptyRoomIsDetached(t *testing.T) {
	r := NewRegistry()
	venue := uuid.New()

	r.Join(venue, member("c1"))
	r.Leave(venue, "c1")

	assert.Equal(t, 0, r.Count(venue))
	assert.Nil(t, r.MembersOf(venue))

	// A detached room must be indistinguishable from one that never
	// existed; rejoining starts fresh.
	count, added := r.Join(venue, member("c2"))
	assert.Equal(t, 1, count)
	assert.True(t, added)
}

func TestRegistryMembersOfSnapshot(t *testing.T) {
	r := NewRegistry()
	venue := uuid.New()
	m1 := member("c1")
	m2 := member("c2")
	r.Join(venue, m1)
	r.Join(venue, m2)

	snapshot := r.MembersOf(venue)
	assert.Len(t, snapshot, 2)

	seen := map[string]bool{}
	for _, m := range snapshot {
		seen[m.ConnId] = true
	}
	assert.True(t, seen["c1"])
	assert.True(t, seen["c2"])
}

func TestRegistryRoomsOf(t *testing.T) {
	r := NewRegistry()
	v1 := uuid.New()
	v2 := uuid.New()
	v3 := uuid.New()

	r.Join(v1, member("c1"))
	r.Join(v2, member("c1"))
	r.Join(v3, member("c2"))

	rooms := r.RoomsOf("c1")
	assert.Len(t, rooms, 2)
	assert.NotContains(t, rooms, v3)

	assert.Empty(t, r.RoomsOf("ghost"))
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry()
	venueA := uuid.New()
	venueB := uuid.New()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			connId := fmt.Sprintf("conn-%d", i)
			m := Member{ConnId: connId, SessionId: uuid.New(), DisplayName: connId}
			for j := 0; j < 100; j++ {
				r.Join(venueA, m)
				r.Join(venueB, m)
				r.Leave(venueB, connId)
			}
		}(i)
	}
	wg.Wait()

	// Every worker ends joined to A and out of B.
	assert.Equal(t, workers, r.Count(venueA))
	assert.Equal(t, 0, r.Count(venueB))
}

func TestRegistryJoinRacingTeardown(t *testing.T) {
	r := NewRegistry()
	venue := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			connId := fmt.Sprintf("a-%d", i)
			r.Join(venue, Member{ConnId: connId})
			r.Leave(venue, connId)
		}(i)
		go func(i int) {
			defer wg.Done()
			connId := fmt.Sprintf("b-%d", i)
			r.Join(venue, Member{ConnId: connId})
			r.Leave(venue, connId)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count(venue))
	assert.Empty(t, r.MembersOf(venue))
}
