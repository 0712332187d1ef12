// internal/httpserver/ws.go
//
// WebSocket transport for a session.
// Outbound: every engine signal as a protocol envelope, preceded by a
// "snapshot" of the current view. Inbound: "select" and "next" envelopes,
// the same inputs as POST /game/select and POST /game/next.

package httpserver

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SweetyAngel/egerus/internal/protocol"
)

const (
	wsSendBuffer = 64
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingEvery  = 25 * time.Second
	wsReadLimit  = 4 << 10
)

var (
	errConnClosed   = errors.New("websocket closed")
	errSlowConsumer = errors.New("websocket send buffer full")
)

// wsConn adapts a websocket to session.Conn. Send only queues; a single
// writer goroutine owns all writes to the socket.
type wsConn struct {
	c         *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(c *websocket.Conn) *wsConn {
	return &wsConn{c: c, send: make(chan []byte, wsSendBuffer), done: make(chan struct{})}
}

func (w *wsConn) Send(b []byte) error {
	select {
	case <-w.done:
		return errConnClosed
	default:
	}
	select {
	case w.send <- b:
		return nil
	default:
		return errSlowConsumer
	}
}

func (w *wsConn) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return nil
}

func (w *wsConn) writeLoop() {
	ping := time.NewTicker(wsPingEvery)
	defer func() {
		ping.Stop()
		_ = w.c.Close()
	}()
	for {
		select {
		case b := <-w.send:
			if err := w.write(websocket.TextMessage, b); err != nil {
				_ = w.Close()
				return
			}
		case <-ping.C:
			if err := w.write(websocket.PingMessage, nil); err != nil {
				_ = w.Close()
				return
			}
		case <-w.done:
			// Flush what was queued before the close (e.g. the "closed" signal).
			for {
				select {
				case b := <-w.send:
					if err := w.write(websocket.TextMessage, b); err != nil {
						return
					}
				default:
					_ = w.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}

func (w *wsConn) write(kind int, b []byte) error {
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(kind, b)
}

// handleEvents upgrades to a WebSocket and streams the session's signals.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	conn := newWSConn(c)
	go conn.writeLoop()

	ctx := r.Context()
	if _, err := sess.Subscribe(ctx, conn); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("websocket subscribe")
		_ = conn.Close()
		return
	}
	defer func() {
		sess.Unsubscribe(conn)
		_ = conn.Close()
	}()

	c.SetReadLimit(wsReadLimit)
	_ = c.SetReadDeadline(time.Now().Add(wsPongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			continue
		}
		switch env.T {
		case protocol.MsgSelect:
			p, err := protocol.DecodePayload[protocol.Select](env)
			if err != nil {
				continue
			}
			if _, _, err := sess.Select(ctx, p.Index); err != nil {
				return
			}
		case protocol.MsgNext:
			if _, _, err := sess.Next(ctx); err != nil {
				log.Error().Err(err).Str("session", sess.ID).Msg("next round")
				return
			}
		}
	}
}
