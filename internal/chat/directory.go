package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/metrics"
)

// Directory is the process-wide mapping from room identifier to Room. At
// most one Room instance exists per identifier at any time; GetOrCreate is
// atomic per key under concurrent callers.
type Directory struct {
	log *zerolog.Logger

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewDirectory builds an empty directory.
func NewDirectory(logger *zerolog.Logger) *Directory {
	return &Directory{
		log:   logger,
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for id, creating it if unseen. Concurrent
// callers with the same new id all observe the same instance. A created
// room with no supplied name is auto-named from a prefix of its id.
func (d *Directory) GetOrCreate(id, name string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.getOrCreate(id, name)
}

// Join atomically resolves the room for id and inserts the connection. The
// insert happens under the directory lock so an eager empty-room delete can
// never land between the lookup and the membership change.
func (d *Directory) Join(id, name string, c Conn) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	room := d.getOrCreate(id, name)
	room.Add(c)
	return room
}

// Create makes a new room with a directory-assigned identifier.
func (d *Directory) Create(name string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.NewString()
	room := NewRoom(id, name)
	d.rooms[id] = room
	metrics.ActiveRooms.Inc()
	d.log.Info().Str("room_id", id).Str("room_name", name).Msg("room created")
	return room
}

// Find returns the room for id if present.
func (d *Directory) Find(id string) (*Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, exists := d.rooms[id]
	return room, exists
}

// Delete removes a room. Deleting an absent id is a no-op.
func (d *Directory) Delete(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.remove(id)
}

// DeleteIfEmpty removes a room only when it currently has no members. The
// check and the delete happen under the directory lock so a concurrent join
// through GetOrCreate cannot land in a removed instance.
func (d *Directory) DeleteIfEmpty(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, exists := d.rooms[id]
	if !exists || !room.Empty() {
		return false
	}
	return d.remove(id)
}

// DeleteEmpty sweeps the directory and removes every room with zero
// members. It returns the number of rooms removed.
func (d *Directory) DeleteEmpty() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for id, room := range d.rooms {
		if room.Empty() {
			d.remove(id)
			removed++
		}
	}
	return removed
}

// All returns a snapshot of the rooms for listing. Momentary staleness is
// acceptable to callers.
func (d *Directory) All() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]*Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Count returns the number of rooms in the directory.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// getOrCreate resolves or creates one entry; callers hold the write lock.
func (d *Directory) getOrCreate(id, name string) *Room {
	if room, exists := d.rooms[id]; exists {
		return room
	}

	if name == "" {
		name = "Room " + truncateID(id)
	}
	room := NewRoom(id, name)
	d.rooms[id] = room
	metrics.ActiveRooms.Inc()
	d.log.Info().Str("room_id", id).Str("room_name", name).Msg("room created")
	return room
}

// remove deletes one entry; callers hold the write lock.
func (d *Directory) remove(id string) bool {
	room, exists := d.rooms[id]
	if !exists {
		return false
	}
	delete(d.rooms, id)
	metrics.ActiveRooms.Dec()
	d.log.Info().Str("room_id", id).Str("room_name", room.Name).Msg("room deleted")
	return true
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
