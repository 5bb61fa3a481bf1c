package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/chat"
	"github.com/ezlevup/chatsocket/internal/config"
	transporthttp "github.com/ezlevup/chatsocket/internal/transport/http"
)

// App wires together the chat core and the transport layer.
type App struct {
	server          *stdhttp.Server
	reaper          *chat.Reaper
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	registry := chat.NewRegistry(cfg.MaxConnections)
	dir := chat.NewDirectory(logger)
	tracker := chat.NewTracker()
	caster := chat.NewBroadcaster(dir, registry, tracker, cfg.SendTimeout, logger)

	handler := chat.NewHandler(registry, dir, tracker, caster, chat.Limits{
		MaxFrameBytes:   cfg.MaxFrameBytes,
		MaxMessageChars: cfg.MaxMessageChars,
	}, logger)

	reaper := chat.NewReaper(dir, cfg.ReapInterval, cfg.StatsInterval, logger)
	server := transporthttp.NewServer(handler, dir, cfg, logger)

	return &App{
		server:          server,
		reaper:          reaper,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and the cleanup reaper, and blocks until
// context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.reaper.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
