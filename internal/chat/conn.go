package chat

import "context"

// Conn is a non-owning handle to one client's duplex message channel. The
// transport layer owns the underlying connection and its lifetime; the core
// only addresses it by identifier and pushes outbound frames through Send.
type Conn interface {
	// ID returns the connection's unique identifier.
	ID() string
	// Send writes one outbound frame. It respects ctx for backpressure
	// timeouts and returns an error once the connection is unusable.
	Send(ctx context.Context, data []byte) error
	// Close tears down the underlying connection with a reason visible to
	// the client.
	Close(reason string) error
}
