package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reaper is the periodic safety net behind eager room deletion: it sweeps
// the directory for empty rooms left behind by any leave path that never
// ran, and logs aggregate statistics on a faster cadence. A failing pass is
// logged and does not stop subsequent runs.
type Reaper struct {
	dir           *Directory
	reapInterval  time.Duration
	statsInterval time.Duration
	log           *zerolog.Logger
}

// NewReaper builds a reaper over the given directory.
func NewReaper(dir *Directory, reapInterval, statsInterval time.Duration, logger *zerolog.Logger) *Reaper {
	return &Reaper{
		dir:           dir,
		reapInterval:  reapInterval,
		statsInterval: statsInterval,
		log:           logger,
	}
}

// Run executes scheduled passes until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	reap := time.NewTicker(r.reapInterval)
	defer reap.Stop()
	stats := time.NewTicker(r.statsInterval)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reap.C:
			r.reapPass()
		case <-stats.C:
			r.statsPass()
		}
	}
}

// reapPass deletes every room with zero members.
func (r *Reaper) reapPass() {
	defer r.recoverPass("reap")

	if removed := r.dir.DeleteEmpty(); removed > 0 {
		r.log.Info().Int("removed", removed).Msg("empty rooms reaped")
	}
}

// statsPass logs room and member totals; it performs no mutation.
func (r *Reaper) statsPass() {
	defer r.recoverPass("stats")

	rooms := r.dir.All()
	members := 0
	for _, room := range rooms {
		members += room.Len()
	}
	r.log.Debug().Int("rooms", len(rooms)).Int("members", members).Msg("chat room statistics")
}

func (r *Reaper) recoverPass(pass string) {
	if rec := recover(); rec != nil {
		r.log.Error().Interface("panic", rec).Str("pass", pass).Msg("reaper pass failed")
	}
}
