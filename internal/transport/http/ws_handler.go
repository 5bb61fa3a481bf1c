package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/chat"
	"github.com/ezlevup/chatsocket/internal/utils"
)

// wsReadLimit bounds a single websocket frame at the transport level. It is
// deliberately far above the chat frame ceiling so oversized application
// frames reach the handler (which drops them and keeps the connection open)
// instead of killing the connection with a protocol close.
const wsReadLimit = 32 * 1024

// WSHandler upgrades HTTP connections and bridges them to the chat
// lifecycle handler.
type WSHandler struct {
	chat *chat.Handler
	log  *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(handler *chat.Handler, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{chat: handler, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	conn.SetReadLimit(wsReadLimit)

	wc := &wsConn{id: utils.NewID(), conn: conn}
	if err := h.chat.OnConnect(wc); err != nil {
		conn.Close(websocket.StatusTryAgainLater, "service overloaded")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if isExpectedClose(err) {
				h.chat.OnDisconnect(wc)
				conn.Close(websocket.StatusNormalClosure, "closing")
			} else {
				h.chat.OnTransportError(wc, err)
			}
			return
		}
		h.chat.OnMessage(ctx, wc, data)
	}
}

func isExpectedClose(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

// wsConn adapts a websocket connection to chat.Conn. Broadcasts may call
// Send from several goroutines; the mutex serializes frame writes.
type wsConn struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Close(reason string) error {
	return c.conn.Close(websocket.StatusNormalClosure, reason)
}
