// Package host implements the session-hosting role: it accepts peer
// connections, runs the join handshake, relays frames and mute changes,
// reaps broken connections and republishes the roster after every
// membership change.
package host

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/meshcam/internal/observability"
	"github.com/danmuck/meshcam/internal/protocol"
	"github.com/danmuck/meshcam/internal/state"
)

var (
	ErrBadJoin    = errors.New("host: malformed join handshake")
	ErrServerFull = errors.New("host: session full")
)

// Server fan-outs session traffic between up to MaxParticipants slots.
// Its connection table has its own lock, independent from the slot
// table's; the two are never held at the same time.
type Server struct {
	cfg   Config
	table *state.Table
	hub   hub
}

func NewServer(cfg Config, table *state.Table) *Server {
	return &Server{
		cfg:   cfg.WithDefaults(),
		table: table,
	}
}

// Listen binds the session port. Failure here is a startup error surfaced
// to the user, not a session event.
func (s *Server) Listen() (net.Listener, error) {
	return net.Listen("tcp", s.cfg.ListenAddr)
}

// Serve accepts peers until ctx is canceled. Cancellation closes the
// listener and every live connection, which unblocks all reads promptly.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		s.hub.closeAll()
		_ = ln.Close()
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("session host listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn runs one connection from handshake to teardown.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()

	cl, err := s.handshake(conn)
	if err != nil {
		log.Warn().Str("remote", remote).Err(err).Msg("join rejected")
		return
	}
	observability.RecordClientConnected()
	log.Info().
		Str("remote", remote).
		Str("username", cl.username).
		Int("slot", cl.slot).
		Msg("peer joined")
	defer s.teardown(cl, remote)

	// Catch-up: the newcomer gets every other active slot's latest frame
	// before the roster announcing it goes out. A failure here is an
	// already-dead client; teardown still rebroadcasts the roster.
	if err := s.sendCatchUp(cl); err != nil {
		log.Warn().Str("remote", remote).Err(err).Msg("catch-up send failed")
		return
	}
	s.BroadcastRoster()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		msg, err := protocol.ReadMessage(conn)
		if err != nil {
			logDisconnect(remote, cl.slot, err)
			return
		}
		if !s.dispatch(cl, msg) {
			return
		}
	}
}

// dispatch applies one peer message. Returning false ends the connection.
func (s *Server) dispatch(cl *remoteClient, msg protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgFrame:
		if len(msg.Payload) != protocol.FrameBytes {
			log.Warn().Int("slot", cl.slot).Int("size", len(msg.Payload)).Msg("bad frame size")
			return false
		}
		_ = s.table.SetFrame(cl.slot, msg.Payload)
		s.RelayFrame(cl.slot, msg.Payload)
		return true
	case protocol.MsgMute:
		muted, err := protocol.ParseMute(msg.Payload)
		if err != nil {
			return false
		}
		_ = s.table.SetMuted(cl.slot, muted)
		s.BroadcastRoster()
		return true
	case protocol.MsgLeave:
		return false
	default:
		// Unknown types already had their payload consumed; ignore.
		return true
	}
}

// handshake reads exactly one Join, assigns a slot and replies Accept.
// A full session answers Accept(SlotNone) and drops the connection with
// nothing mutated.
func (s *Server) handshake(conn net.Conn) (*remoteClient, error) {
	_ = conn.SetDeadline(time.Now().Add(s.cfg.HandshakeTimeout))

	msg, err := protocol.ReadMessage(conn)
	if err != nil {
		return nil, err
	}
	if msg.Type != protocol.MsgJoin {
		return nil, ErrBadJoin
	}
	username, err := protocol.ParseJoin(msg.Payload)
	if err != nil {
		return nil, err
	}

	slot, ok := s.table.Claim(username)
	if !ok {
		_ = protocol.WriteMessage(conn, protocol.Message{
			Type:    protocol.MsgAccept,
			Slot:    protocol.SlotNone,
			Payload: protocol.EncodeAccept(protocol.SlotNone),
		})
		return nil, ErrServerFull
	}

	cl := &remoteClient{
		conn:         conn,
		slot:         slot,
		username:     username,
		writeTimeout: s.cfg.WriteTimeout,
	}
	s.hub.add(cl)

	accept := protocol.Message{
		Type:    protocol.MsgAccept,
		Slot:    uint8(slot),
		Payload: protocol.EncodeAccept(uint8(slot)),
	}
	if err := cl.send(accept); err != nil {
		s.hub.remove(cl)
		s.table.Release(slot)
		return nil, err
	}

	_ = conn.SetDeadline(time.Time{})
	return cl, nil
}

func (s *Server) sendCatchUp(cl *remoteClient) error {
	snap := s.table.Snapshot()
	for i, slot := range snap {
		if !slot.Active || i == cl.slot {
			continue
		}
		msg := protocol.Message{
			Type:    protocol.MsgFrame,
			Slot:    uint8(i),
			Payload: slot.Frame[:],
		}
		if err := cl.send(msg); err != nil {
			return err
		}
	}
	return nil
}

// teardown removes a departed client and tells everyone else. Safe to call
// after a broadcast pass already reaped the client.
func (s *Server) teardown(cl *remoteClient, remote string) {
	if !s.hub.remove(cl) {
		return
	}
	_ = cl.conn.Close()
	s.table.Release(cl.slot)
	observability.RecordClientGone()
	log.Info().Str("remote", remote).Int("slot", cl.slot).Msg("peer left")
	s.BroadcastRoster()
}

// reap removes a client discovered dead during a broadcast pass. The
// caller is responsible for the follow-up roster broadcast.
func (s *Server) reap(cl *remoteClient) {
	if !s.hub.remove(cl) {
		return
	}
	_ = cl.conn.Close()
	s.table.Release(cl.slot)
	observability.RecordClientGone()
	observability.RecordClientReap()
	log.Warn().Int("slot", cl.slot).Str("username", cl.username).Msg("peer reaped")
}

func logDisconnect(remote string, slot int, err error) {
	if errors.Is(err, protocol.ErrPayloadTooLarge) || errors.Is(err, protocol.ErrReservedNonZero) {
		log.Warn().Str("remote", remote).Int("slot", slot).Err(err).Msg("protocol violation")
		return
	}
	log.Info().Str("remote", remote).Int("slot", slot).Err(err).Msg("peer connection ended")
}
