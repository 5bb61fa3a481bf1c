package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/metrics"
	"github.com/ezlevup/chatsocket/internal/proto"
)

// Broadcaster fans an envelope out to a room's members. Delivery runs
// against a point-in-time snapshot of the member set; a recipient whose
// send fails is pruned from the room, the registry and the tracker, and
// the fan-out continues with the remaining recipients. Failed sends are
// never retried.
type Broadcaster struct {
	dir         *Directory
	registry    *Registry
	tracker     *Tracker
	sendTimeout time.Duration
	log         *zerolog.Logger
}

// NewBroadcaster builds a broadcaster with the given per-recipient send
// timeout.
func NewBroadcaster(dir *Directory, registry *Registry, tracker *Tracker, sendTimeout time.Duration, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		dir:         dir,
		registry:    registry,
		tracker:     tracker,
		sendTimeout: sendTimeout,
		log:         logger,
	}
}

// Broadcast delivers env to every member of roomID. Only TALK envelopes
// honor exclude; every other kind goes to the whole room. An absent room is
// a logged no-op.
func (b *Broadcaster) Broadcast(roomID string, env *proto.Envelope, exclude Conn) {
	room, ok := b.dir.Find(roomID)
	if !ok {
		b.log.Warn().Str("room_id", roomID).Msg("broadcast to unknown room")
		return
	}

	data, err := env.Encode()
	if err != nil {
		b.log.Error().Err(err).Str("room_id", roomID).Msg("encode broadcast envelope")
		return
	}

	members := room.Snapshot()
	sent := 0
	for _, c := range members {
		if env.Type == proto.KindTalk && exclude != nil && c.ID() == exclude.ID() {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), b.sendTimeout)
		err := c.Send(ctx, data)
		cancel()
		if err != nil {
			// Presumed dead: drop it everywhere and keep going. The empty
			// room, if any, is swept by the reaper.
			b.log.Warn().Err(err).Str("conn_id", c.ID()).Str("room_id", roomID).Msg("send failed, pruning connection")
			room.Remove(c.ID())
			b.registry.Remove(c.ID())
			b.tracker.Remove(c.ID())
			metrics.SendFailuresTotal.Inc()
			continue
		}
		sent++
	}

	metrics.BroadcastsTotal.Inc()
	b.log.Debug().
		Str("room_id", roomID).
		Str("type", string(env.Type)).
		Int("sent", sent).
		Int("snapshot", len(members)).
		Msg("broadcast complete")
}
