package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Member is a presence entry: a connection identifier tagged with the bound
// identity for broadcast purposes. The registry never owns connections.
type Member struct {
	ConnId      string
	SessionId   uuid.UUID
	DisplayName string
}

// Registry is the membership map from venue to currently connected members.
// It is the single point of truth for "who is here". Each venue room has its
// own lock so unrelated venues never serialize on each other; the outer lock
// only guards the room map itself.
type Registry struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*room
}

type room struct {
	mu sync.Mutex
	// gone marks a room that has been emptied and detached from the map.
	// A Join that raced the teardown retries against a fresh room.
	gone    bool
	members map[string]Member
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[uuid.UUID]*room),
	}
}

func (r *Registry) getOrCreate(venueId uuid.UUID) *room {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[venueId]
	if !ok {
		rm = &room{members: make(map[string]Member)}
		r.rooms[venueId] = rm
	}
	return rm
}

// Join adds the member to the venue room, creating the room lazily. Joining a
// room the connection is already in is a no-op. Returns the member count
// after the call and whether this call actually added the member.
func (r *Registry) Join(venueId uuid.UUID, m Member) (int, bool) {
	for {
		rm := r.getOrCreate(venueId)

		rm.mu.Lock()
		if rm.gone {
			rm.mu.Unlock()
			continue
		}
		if _, exists := rm.members[m.ConnId]; exists {
			count := len(rm.members)
			rm.mu.Unlock()
			return count, false
		}
		rm.members[m.ConnId] = m
		count := len(rm.members)
		rm.mu.Unlock()
		return count, true
	}
}

// Leave removes the connection from the venue room. Removing an absent
// member is a no-op, not an error. Returns the member count after the call
// and whether this call actually removed the member. A room left empty is
// detached from the map: an empty room is indistinguishable from one that
// never existed.
func (r *Registry) Leave(venueId uuid.UUID, connId string) (int, bool) {
	r.mu.RLock()
	rm, ok := r.rooms[venueId]
	r.mu.RUnlock()
	if !ok {
		return 0, false
	}

	rm.mu.Lock()
	_, present := rm.members[connId]
	delete(rm.members, connId)
	count := len(rm.members)
	teardown := present && count == 0
	if teardown {
		rm.gone = true
	}
	rm.mu.Unlock()

	if teardown {
		r.mu.Lock()
		if r.rooms[venueId] == rm {
			delete(r.rooms, venueId)
		}
		r.mu.Unlock()
	}
	return count, present
}

// MembersOf returns a point-in-time snapshot of the venue's members. Joins
// and leaves concurrent with the snapshot may land on either side of it.
func (r *Registry) MembersOf(venueId uuid.UUID) []Member {
	r.mu.RLock()
	rm, ok := r.rooms[venueId]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	snapshot := make([]Member, 0, len(rm.members))
	for _, m := range rm.members {
		snapshot = append(snapshot, m)
	}
	return snapshot
}

// RoomsOf returns every venue the connection is currently a member of.
// Used by the disconnect path to emit one user_left per membership.
func (r *Registry) RoomsOf(connId string) []uuid.UUID {
	r.mu.RLock()
	rooms := make(map[uuid.UUID]*room, len(r.rooms))
	for id, rm := range r.rooms {
		rooms[id] = rm
	}
	r.mu.RUnlock()

	var venues []uuid.UUID
	for id, rm := range rooms {
		rm.mu.Lock()
		_, member := rm.members[connId]
		rm.mu.Unlock()
		if member {
			venues = append(venues, id)
		}
	}
	return venues
}

// Count returns the current member count of a venue. Unknown venues count
// zero.
func (r *Registry) Count(venueId uuid.UUID) int {
	r.mu.RLock()
	rm, ok := r.rooms[venueId]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.members)
}
