package http

import (
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/chat"
	"github.com/ezlevup/chatsocket/internal/config"
)

// testServer bundles the chat stack behind a ready-to-serve handler.
type testServer struct {
	handler stdhttp.Handler
	dir     *chat.Directory
}

// newTestServer wires an isolated chat stack with a silent logger.
func newTestServer(maxConns int) *testServer {
	logger := zerolog.New(nil)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.MaxConnections = maxConns

	registry := chat.NewRegistry(cfg.MaxConnections)
	dir := chat.NewDirectory(&logger)
	tracker := chat.NewTracker()
	caster := chat.NewBroadcaster(dir, registry, tracker, time.Second, &logger)
	handler := chat.NewHandler(registry, dir, tracker, caster, chat.Limits{
		MaxFrameBytes:   cfg.MaxFrameBytes,
		MaxMessageChars: cfg.MaxMessageChars,
	}, &logger)

	server := NewServer(handler, dir, &cfg, &logger)

	return &testServer{handler: server.Handler, dir: dir}
}
