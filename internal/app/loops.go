package app

import (
	"context"
	"time"
)

// produceLoop generates one local frame per tick and transmits it: the
// host fans out directly, a peer sends it upstream. Transmission failure
// ends the session.
func (s *Session) produceLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame := s.deps.Source.Next(tick)
		tick++
		if err := s.table.SetFrame(s.selfSlot, frame); err != nil {
			return err
		}
		if s.server != nil {
			s.server.RelayFrame(s.selfSlot, frame)
			continue
		}
		if err := s.client.SendFrame(frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// renderLoop snapshots and draws on a fixed interval. It never touches
// the network and holds no lock while drawing.
func (s *Session) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.RenderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.deps.Renderer.Render(s.table.Snapshot(), s.selfSlot)
		}
	}
}

// inputLoop polls for keys with a short timeout so cancellation is
// noticed promptly. 'm' toggles mute; 'q' or Ctrl-C quits, with a
// best-effort Leave when this process is a peer.
func (s *Session) inputLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		key, ok := s.deps.Keys.Poll(s.cfg.InputPoll)
		if !ok {
			continue
		}
		switch key {
		case 'm', 'M':
			if err := s.toggleMute(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case 'q', 'Q', 0x03:
			if s.client != nil {
				s.client.SendLeave()
			}
			return nil
		}
	}
}
