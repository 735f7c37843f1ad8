package host

import (
	"github.com/danmuck/meshcam/internal/observability"
	"github.com/danmuck/meshcam/internal/protocol"
)

// RelayFrame fans one frame out to every client except its origin. Clients
// that fail the send are reaped and the roster goes out again.
func (s *Server) RelayFrame(origin int, frame []byte) {
	msg := protocol.Message{
		Type:    protocol.MsgFrame,
		Slot:    uint8(origin),
		Payload: frame,
	}
	failed := s.sendToAll(msg, origin)
	observability.RecordFrameRelayed(origin)
	if len(failed) == 0 {
		return
	}
	for _, cl := range failed {
		s.reap(cl)
	}
	s.BroadcastRoster()
}

// BroadcastRoster pushes the current roster to every client. A pass with
// any send failure reaps the offenders and restarts from the top against
// the shorter list, so every survivor ends up with a roster reflecting
// current membership.
func (s *Server) BroadcastRoster() {
	for {
		payload := protocol.EncodeRoster(s.table.RosterEntries())
		msg := protocol.Message{Type: protocol.MsgRoster, Payload: payload}
		failed := s.sendToAll(msg, -1)
		if len(failed) == 0 {
			observability.RecordRosterBroadcast()
			return
		}
		observability.RecordBroadcastRetry()
		for _, cl := range failed {
			s.reap(cl)
		}
	}
}

func (s *Server) sendToAll(msg protocol.Message, exceptSlot int) []*remoteClient {
	var failed []*remoteClient
	for _, cl := range s.hub.list() {
		if cl.slot == exceptSlot {
			continue
		}
		if err := cl.send(msg); err != nil {
			failed = append(failed, cl)
		}
	}
	return failed
}
