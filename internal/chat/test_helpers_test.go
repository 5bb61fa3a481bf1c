package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/proto"
)

// fakeConn records every frame pushed to it. Setting fail makes all sends
// error, simulating a dead connection.
type fakeConn struct {
	id string

	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fail || c.closed {
		return errors.New("connection closed")
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Close(string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) setFail(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fail
}

// received decodes every recorded frame.
func (c *fakeConn) received(t *testing.T) []*proto.Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	envs := make([]*proto.Envelope, 0, len(c.frames))
	for _, frame := range c.frames {
		var env proto.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("undecodable frame %q: %v", frame, err)
		}
		envs = append(envs, &env)
	}
	return envs
}

// lastEnvelope returns the most recent frame, failing if none arrived.
func (c *fakeConn) lastEnvelope(t *testing.T) *proto.Envelope {
	t.Helper()

	envs := c.received(t)
	if len(envs) == 0 {
		t.Fatal("expected at least one received envelope")
	}
	return envs[len(envs)-1]
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

type testStack struct {
	registry *Registry
	dir      *Directory
	tracker  *Tracker
	handler  *Handler
}

// newTestStack wires a handler with isolated state and a silent logger.
func newTestStack(maxConns int) *testStack {
	logger := zerolog.New(nil)
	registry := NewRegistry(maxConns)
	dir := NewDirectory(&logger)
	tracker := NewTracker()
	caster := NewBroadcaster(dir, registry, tracker, time.Second, &logger)

	handler := NewHandler(registry, dir, tracker, caster, Limits{
		MaxFrameBytes:   1024,
		MaxMessageChars: 500,
	}, &logger)

	return &testStack{
		registry: registry,
		dir:      dir,
		tracker:  tracker,
		handler:  handler,
	}
}

// enter connects c and joins it to room as sender.
func (s *testStack) enter(t *testing.T, c *fakeConn, room, sender string) {
	t.Helper()

	if err := s.handler.OnConnect(c); err != nil {
		t.Fatalf("OnConnect(%s): %v", c.ID(), err)
	}
	s.send(t, c, proto.New(proto.KindEnter, room, sender, ""))
}

// send encodes env and feeds it through OnMessage.
func (s *testStack) send(t *testing.T, c *fakeConn, env *proto.Envelope) {
	t.Helper()

	raw, err := env.Encode()
	if err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	s.handler.OnMessage(context.Background(), c, raw)
}
