package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browser origin policy is handled by the CORS middleware upstream;
	// the stream itself is read-only.
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// streamRoster upgrades to a websocket and pushes the roster snapshot on
// every membership or mute change, coalesced through the table's
// subscription channel.
func (s *Server) streamRoster(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("roster stream upgrade failed")
		return
	}
	defer conn.Close()

	changes, cancel := s.table.Subscribe()
	defer cancel()

	// Reader side only notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := s.writeRoster(conn); err != nil {
		return
	}
	for {
		select {
		case <-changes:
			if err := s.writeRoster(conn); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (s *Server) writeRoster(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(gin.H{"roster": s.rosterViews()})
}
