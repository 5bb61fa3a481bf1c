package chat

import "sync"

// Tracker maps an active connection to the room it last joined. It is the
// only source of truth for which room a connection is in: an entry exists
// exactly while the connection has an active join.
type Tracker struct {
	mu    sync.RWMutex
	rooms map[string]string
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{rooms: make(map[string]string)}
}

// Set records that a connection occupies a room.
func (t *Tracker) Set(connID, roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rooms[connID] = roomID
}

// Lookup returns the room a connection occupies.
func (t *Tracker) Lookup(connID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	roomID, exists := t.rooms[connID]
	return roomID, exists
}

// Remove drops a connection's entry and returns the room it occupied.
// Removing an untracked connection is a no-op.
func (t *Tracker) Remove(connID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	roomID, exists := t.rooms[connID]
	if exists {
		delete(t.rooms, connID)
	}
	return roomID, exists
}
