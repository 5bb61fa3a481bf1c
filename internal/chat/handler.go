package chat

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/metrics"
	"github.com/ezlevup/chatsocket/internal/proto"
)

// Error texts reported back to the originating connection as system TALK
// envelopes. The connection stays open after any of them.
const (
	errBadFormat     = "invalid message format"
	errBodyTooLong   = "message is too long (max 500 characters)"
	errMissingFields = "room id and sender are required"
	errNotJoined     = "join a room before sending messages"
)

// Limits bounds inbound traffic handled by the lifecycle handler.
type Limits struct {
	// MaxFrameBytes caps a raw inbound frame. Larger frames are dropped
	// without a reply.
	MaxFrameBytes int
	// MaxMessageChars caps the envelope body of TALK and ENTER, counted
	// in runes.
	MaxMessageChars int
}

// Handler orchestrates connect, message, disconnect and transport-error
// events into registry, directory, tracker and broadcast operations. One
// Handler serves all connections concurrently.
type Handler struct {
	registry *Registry
	dir      *Directory
	tracker  *Tracker
	caster   *Broadcaster
	limits   Limits
	log      *zerolog.Logger
}

// NewHandler wires the lifecycle handler to its collaborators.
func NewHandler(registry *Registry, dir *Directory, tracker *Tracker, caster *Broadcaster, limits Limits, logger *zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		dir:      dir,
		tracker:  tracker,
		caster:   caster,
		limits:   limits,
		log:      logger,
	}
}

// OnConnect registers a new connection. It returns ErrServerFull when the
// connection ceiling is reached; the caller closes the connection with an
// overload signal and no state is created.
func (h *Handler) OnConnect(c Conn) error {
	if err := h.registry.Add(c); err != nil {
		metrics.ConnectionsRejectedTotal.Inc()
		h.log.Warn().Str("conn_id", c.ID()).Int("active", h.registry.Len()).Msg("connection refused, server full")
		return err
	}
	h.log.Info().Str("conn_id", c.ID()).Int("active", h.registry.Len()).Msg("connection registered")
	return nil
}

// OnMessage processes one raw inbound frame from a connection.
func (h *Handler) OnMessage(ctx context.Context, c Conn, raw []byte) {
	if h.limits.MaxFrameBytes > 0 && len(raw) > h.limits.MaxFrameBytes {
		h.log.Warn().Str("conn_id", c.ID()).Int("size", len(raw)).Msg("oversized frame dropped")
		return
	}

	if proto.IsPing(raw) {
		h.log.Debug().Str("conn_id", c.ID()).Msg("ping received")
		return
	}

	env, err := proto.Decode(raw)
	if err != nil {
		h.log.Warn().Err(err).Str("conn_id", c.ID()).Msg("malformed envelope")
		h.replyError(ctx, c, errBadFormat)
		return
	}

	switch env.Type {
	case proto.KindEnter:
		if h.bodyTooLong(env) {
			h.replyError(ctx, c, errBodyTooLong)
			return
		}
		h.handleEnter(ctx, c, env)
	case proto.KindTalk:
		if h.bodyTooLong(env) {
			h.replyError(ctx, c, errBodyTooLong)
			return
		}
		h.handleTalk(ctx, c, env)
	case proto.KindQuit:
		h.leave(c)
	default:
		h.log.Warn().Str("conn_id", c.ID()).Str("type", string(env.Type)).Msg("unknown envelope type")
	}
}

// bodyTooLong applies the body ceiling to TALK and ENTER envelopes; the
// limit counts runes, not bytes.
func (h *Handler) bodyTooLong(env *proto.Envelope) bool {
	return h.limits.MaxMessageChars > 0 && utf8.RuneCountInString(env.Message) > h.limits.MaxMessageChars
}

// OnDisconnect runs the leave procedure and deregisters the connection.
// Safe to call for connections that never joined a room.
func (h *Handler) OnDisconnect(c Conn) {
	h.leave(c)
	h.registry.Remove(c.ID())
	h.log.Info().Str("conn_id", c.ID()).Int("active", h.registry.Len()).Msg("connection closed")
}

// OnTransportError is the disconnect path for unexpected transport
// failures. The error never propagates past the handler.
func (h *Handler) OnTransportError(c Conn, err error) {
	h.log.Error().Err(err).Str("conn_id", c.ID()).Msg("transport error")
	h.leave(c)
	h.registry.Remove(c.ID())
}

func (h *Handler) handleEnter(ctx context.Context, c Conn, env *proto.Envelope) {
	if env.RoomID == "" || env.Sender == "" {
		h.replyError(ctx, c, errMissingFields)
		return
	}

	h.registry.BindName(c.ID(), env.Sender)

	// A connection occupies at most one room; entering a second room
	// leaves the first, with the usual quit notice.
	if prev, ok := h.tracker.Lookup(c.ID()); ok && prev != env.RoomID {
		h.leave(c)
	}

	h.dir.Join(env.RoomID, "", c)
	h.tracker.Set(c.ID(), env.RoomID)

	h.log.Info().Str("conn_id", c.ID()).Str("sender", env.Sender).Str("room_id", env.RoomID).Msg("user entered room")
	h.caster.Broadcast(env.RoomID, proto.New(proto.KindEnter, env.RoomID, env.Sender, env.Sender+" joined"), nil)
}

func (h *Handler) handleTalk(ctx context.Context, c Conn, env *proto.Envelope) {
	roomID, ok := h.tracker.Lookup(c.ID())
	if !ok {
		h.replyError(ctx, c, errNotJoined)
		return
	}

	// Never trust the client's room id; the tracked room is authoritative.
	env.RoomID = roomID

	h.log.Debug().Str("conn_id", c.ID()).Str("sender", env.Sender).Str("room_id", roomID).Msg("chat message")
	h.caster.Broadcast(roomID, env, nil)
}

// leave is the shared procedure behind QUIT, disconnect and transport
// errors: drop the tracker entry, remove the connection from its room,
// announce the departure to remaining members and eagerly delete the room
// once empty. A connection with no tracked room is a no-op.
func (h *Handler) leave(c Conn) {
	roomID, ok := h.tracker.Remove(c.ID())
	if !ok {
		return
	}

	room, ok := h.dir.Find(roomID)
	if !ok {
		return
	}
	room.Remove(c.ID())

	sender := h.registry.Name(c.ID())
	h.log.Info().Str("conn_id", c.ID()).Str("sender", sender).Str("room_id", roomID).Msg("user left room")
	h.caster.Broadcast(roomID, proto.New(proto.KindQuit, roomID, sender, sender+" left"), nil)

	h.dir.DeleteIfEmpty(roomID)
}

// replyError reports a validation or protocol-state error back to the
// originating connection only.
func (h *Handler) replyError(ctx context.Context, c Conn, message string) {
	data, err := proto.SystemError(message).Encode()
	if err != nil {
		h.log.Error().Err(err).Msg("encode error reply")
		return
	}
	if err := c.Send(ctx, data); err != nil {
		h.log.Warn().Err(err).Str("conn_id", c.ID()).Msg("send error reply")
	}
}
