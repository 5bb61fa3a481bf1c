package chat

import "sync"

// Room groups the connections subscribed to the same channel. Membership is
// by connection identity; adding a member twice is a no-op. All methods are
// safe for concurrent use from any number of connection handlers.
type Room struct {
	// ID never changes after creation.
	ID   string
	Name string

	mu      sync.RWMutex
	members map[string]Conn
}

// NewRoom constructs a room with no members.
func NewRoom(id, name string) *Room {
	return &Room{
		ID:      id,
		Name:    name,
		members: make(map[string]Conn),
	}
}

// Add inserts a connection into the room. Returns true if newly added.
func (r *Room) Add(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[c.ID()]; exists {
		return false
	}
	r.members[c.ID()] = c
	return true
}

// Remove deletes a connection from the room. Returns true if removed.
func (r *Room) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[id]; !exists {
		return false
	}
	delete(r.members, id)
	return true
}

// Snapshot returns a point-in-time copy of the member set. Broadcasts
// iterate the copy so concurrent joins and leaves never mutate the
// collection under them.
func (r *Room) Snapshot() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Conn, 0, len(r.members))
	for _, c := range r.members {
		members = append(members, c)
	}
	return members
}

// Len returns the current member count.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Empty returns true if no connections are in the room.
func (r *Room) Empty() bool {
	return r.Len() == 0
}
