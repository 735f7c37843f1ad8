// Package peer implements the joining role: it dials a session host,
// performs the join handshake, applies received frames/roster/mute updates
// to the local slot table and forwards locally produced traffic.
package peer

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/meshcam/internal/protocol"
	"github.com/danmuck/meshcam/internal/state"
)

var (
	// ErrSessionFull is the host's Accept(SlotNone) rejection. It is a
	// user-visible outcome, not a transport failure, and is never retried.
	ErrSessionFull = errors.New("peer: session full")
	ErrBadAccept   = errors.New("peer: unexpected handshake reply")
)

// Client is a live peer session. All sends share one mutex so a message is
// fully written before the next begins.
type Client struct {
	cfg      Config
	conn     net.Conn
	table    *state.Table
	slot     int
	username string

	wmu       sync.Mutex
	closeOnce sync.Once
}

// Dial connects to the host and runs the join handshake. On success the
// local slot table already carries this process's own meta.
func Dial(ctx context.Context, addr, username string, table *state.Table, cfg Config) (*Client, error) {
	cfg = cfg.WithDefaults()

	joinPayload, err := protocol.EncodeJoin(username)
	if err != nil {
		return nil, err
	}

	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	_ = conn.SetDeadline(time.Now().Add(cfg.HandshakeTimeout))
	join := protocol.Message{Type: protocol.MsgJoin, Payload: joinPayload}
	if err := protocol.WriteMessage(conn, join); err != nil {
		_ = conn.Close()
		return nil, err
	}

	msg, err := protocol.ReadMessage(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if msg.Type != protocol.MsgAccept {
		_ = conn.Close()
		return nil, ErrBadAccept
	}
	slot, ok, err := protocol.ParseAccept(msg.Payload)
	if err != nil {
		_ = conn.Close()
		return nil, ErrBadAccept
	}
	if !ok {
		_ = conn.Close()
		return nil, ErrSessionFull
	}
	_ = conn.SetDeadline(time.Time{})

	c := &Client{
		cfg:      cfg,
		conn:     conn,
		table:    table,
		slot:     int(slot),
		username: username,
	}
	_ = table.SetMeta(c.slot, username, true, false)
	log.Info().Str("addr", addr).Int("slot", c.slot).Msg("joined session")
	return c, nil
}

func (c *Client) Slot() int {
	return c.slot
}

// Run is the receive loop. It returns nil when the host closes the stream
// or ctx is canceled, and the transport error otherwise; either way the
// session is over when it returns.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		c.close()
	}()

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		msg, err := protocol.ReadMessage(c.conn)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if err := c.apply(msg); err != nil {
			return err
		}
	}
}

// apply dispatches one host message into the slot table.
func (c *Client) apply(msg protocol.Message) error {
	switch msg.Type {
	case protocol.MsgFrame:
		if len(msg.Payload) != protocol.FrameBytes || int(msg.Slot) >= protocol.MaxParticipants {
			return protocol.ErrBadPayload
		}
		return c.table.SetFrame(int(msg.Slot), msg.Payload)
	case protocol.MsgRoster:
		entries, err := protocol.ParseRoster(msg.Payload)
		if err != nil {
			return err
		}
		c.table.ApplyRoster(entries)
		return nil
	case protocol.MsgMute:
		muted, err := protocol.ParseMute(msg.Payload)
		if err != nil {
			return err
		}
		if int(msg.Slot) >= protocol.MaxParticipants {
			return protocol.ErrBadPayload
		}
		return c.table.SetMuted(int(msg.Slot), muted)
	default:
		// Payload already consumed; unknown types keep framing intact.
		return nil
	}
}

// SendFrame forwards one locally produced frame to the host.
func (c *Client) SendFrame(frame []byte) error {
	return c.send(protocol.Message{
		Type:    protocol.MsgFrame,
		Slot:    uint8(c.slot),
		Payload: frame,
	})
}

// SendMute notifies the host of a local mute toggle.
func (c *Client) SendMute(muted bool) error {
	return c.send(protocol.Message{
		Type:    protocol.MsgMute,
		Slot:    uint8(c.slot),
		Payload: protocol.EncodeMute(muted),
	})
}

// SendLeave is the best-effort goodbye before quitting.
func (c *Client) SendLeave() {
	_ = c.send(protocol.Message{Type: protocol.MsgLeave, Slot: uint8(c.slot)})
}

func (c *Client) send(m protocol.Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return protocol.WriteMessage(c.conn, m)
}

func (c *Client) Close() error {
	c.close()
	return nil
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}
