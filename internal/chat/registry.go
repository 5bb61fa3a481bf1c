package chat

import (
	"errors"
	"sync"

	"github.com/ezlevup/chatsocket/internal/metrics"
)

// ErrServerFull is returned by Registry.Add once the connection ceiling is
// reached. The transport closes the connection with an overload signal.
var ErrServerFull = errors.New("connection limit reached")

// fallbackName is used in leave notices for connections that never bound a
// display name.
const fallbackName = "user"

// Registry is the active-connection set. It enforces the process-wide
// connection ceiling and keeps the display name bound to each connection at
// join time.
type Registry struct {
	limit int

	mu    sync.RWMutex
	conns map[string]Conn
	names map[string]string
}

// NewRegistry builds a registry with the given connection ceiling. A limit
// of zero or less disables the ceiling.
func NewRegistry(limit int) *Registry {
	return &Registry{
		limit: limit,
		conns: make(map[string]Conn),
		names: make(map[string]string),
	}
}

// Add registers a connection. It returns ErrServerFull when the ceiling is
// reached; no state is created in that case.
func (r *Registry) Add(c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.conns) >= r.limit {
		return ErrServerFull
	}
	if _, exists := r.conns[c.ID()]; !exists {
		metrics.ActiveConnections.Inc()
	}
	r.conns[c.ID()] = c
	return nil
}

// Remove deregisters a connection and drops its bound name. Removing an
// unknown id is a no-op.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; !exists {
		return false
	}
	delete(r.conns, id)
	delete(r.names, id)
	metrics.ActiveConnections.Dec()
	return true
}

// BindName attaches a display name to a registered connection.
func (r *Registry) BindName(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; exists {
		r.names[id] = name
	}
}

// Name returns the display name bound to a connection, or a fallback when
// none was bound.
func (r *Registry) Name(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name := r.names[id]; name != "" {
		return name
	}
	return fallbackName
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
