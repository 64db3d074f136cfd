// internal/hub/ws.go
//
// WebSocket transport for the hub. The HTTP layer authenticates the request
// and hands the resolved identity in; this file only upgrades, pumps inbound
// frames into the dispatcher, and reconciles on disconnect.
package hub

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens before the upgrade; origins are enforced by CORS on the
	// rest of the API and native clients send none.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes. Fan-out means several goroutines write to the
// same socket and gorilla permits only one concurrent writer.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error { return c.ws.Close() }

// ServeWS upgrades the request and runs the read loop until the socket dies.
// Blocks for the connection's lifetime; chi runs it on its own goroutine.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, ident Identity) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &wsConn{ws: ws}
	log.Debug().Str("player", ident.PlayerID).Msg("socket connected")

	// The request context dies with the handshake response, so close
	// reconciliation runs on a fresh context.
	defer h.HandleClose(context.Background(), c)
	defer func() { _ = ws.Close() }()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("player", ident.PlayerID).Msg("socket read error")
			}
			return
		}
		h.HandleMessage(r.Context(), c, ident, raw)
	}
}
