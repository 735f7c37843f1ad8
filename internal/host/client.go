package host

import (
	"net"
	"sync"
	"time"

	"github.com/danmuck/meshcam/internal/protocol"
)

// remoteClient binds one accepted connection to its assigned slot. It
// indexes into the slot table but never owns the slot; removal always
// releases the slot separately.
type remoteClient struct {
	conn         net.Conn
	slot         int
	username     string
	writeTimeout time.Duration

	// wmu serializes writers so one message is fully on the wire before
	// the next begins.
	wmu sync.Mutex
}

func (c *remoteClient) send(m protocol.Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return protocol.WriteMessage(c.conn, m)
}
