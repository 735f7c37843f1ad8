// Package app wires one meshcam process together: slot table, host or
// peer role, and the four session loops (network, render, frame producer,
// key input). Everything hangs off an explicit Session value; there is no
// package-level mutable state.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/meshcam/internal/admin"
	"github.com/danmuck/meshcam/internal/host"
	"github.com/danmuck/meshcam/internal/media"
	"github.com/danmuck/meshcam/internal/peer"
	"github.com/danmuck/meshcam/internal/render"
	"github.com/danmuck/meshcam/internal/state"
	"github.com/danmuck/meshcam/internal/term"
)

// Deps are the collaborator boundaries, injectable for tests. Nil fields
// take the production implementations.
type Deps struct {
	Source   media.FrameSource
	Renderer render.Renderer
	Keys     term.KeyReader
}

// Session is one running chat process. Its lifetime spans Run.
type Session struct {
	cfg   Config
	table *state.Table
	deps  Deps

	selfSlot int
	server   *host.Server
	client   *peer.Client

	ready     chan struct{}
	readyOnce sync.Once
	boundAddr string

	muteMu sync.Mutex
	muted  bool
}

func New(cfg Config, deps Deps) (*Session, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if deps.Source == nil {
		name, arg := "avatar", cfg.Username
		if cfg.FramePath != "" {
			name, arg = "file", cfg.FramePath
		}
		src, err := media.Open(name, arg)
		if err != nil {
			return nil, err
		}
		deps.Source = src
	}
	if deps.Renderer == nil {
		deps.Renderer = render.NewANSI(os.Stdout)
	}
	if deps.Keys == nil {
		deps.Keys = term.NewStdinKeys()
	}

	return &Session{
		cfg:   cfg,
		table: state.NewTable(),
		deps:  deps,
		ready: make(chan struct{}),
	}, nil
}

// Table exposes the slot table for the admin surface and tests.
func (s *Session) Table() *state.Table {
	return s.table
}

// Ready closes once the session is listening (host) or joined (peer).
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the host's bound listen address, or the peer's target. Valid
// after Ready.
func (s *Session) Addr() string {
	return s.boundAddr
}

func (s *Session) markReady(addr string) {
	s.readyOnce.Do(func() {
		s.boundAddr = addr
		close(s.ready)
	})
}

// Run executes the session until ctx is canceled, a loop fails, or the
// user quits. Startup failures (bind, connect, session full) return
// before any loop starts.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.deps.Keys.Close()

	errCh := make(chan error, 5)
	var wg sync.WaitGroup
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				log.Warn().Str("loop", name).Err(err).Msg("session loop failed")
				errCh <- fmt.Errorf("%s: %w", name, err)
			}
			// Any loop ending means the session is over.
			cancel()
		}()
	}

	if s.cfg.IsHost() {
		slot, ok := s.table.Claim(s.cfg.Username)
		if !ok {
			return fmt.Errorf("app: could not claim host slot")
		}
		s.selfSlot = slot
		s.server = host.NewServer(host.Config{ListenAddr: s.cfg.ListenAddr}, s.table)
		ln, err := s.server.Listen()
		if err != nil {
			return fmt.Errorf("app: bind %s: %w", s.cfg.ListenAddr, err)
		}
		s.markReady(ln.Addr().String())
		start("network", func(ctx context.Context) error {
			return s.server.Serve(ctx, ln)
		})
	} else {
		client, err := peer.Dial(ctx, s.cfg.ConnectAddr, s.cfg.Username, s.table, peer.Config{})
		if err != nil {
			return err
		}
		s.client = client
		s.selfSlot = client.Slot()
		s.markReady(s.cfg.ConnectAddr)
		start("network", client.Run)
	}

	if s.cfg.AdminAddr != "" {
		role := "peer"
		if s.cfg.IsHost() {
			role = "host"
		}
		adm := admin.New(s.cfg.Username, role, s.table, s.cfg.CorsOrigins)
		start("admin", func(ctx context.Context) error {
			return adm.Run(ctx, s.cfg.AdminAddr)
		})
	}

	start("producer", s.produceLoop)
	start("render", s.renderLoop)
	start("input", s.inputLoop)

	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// toggleMute flips local mute state and propagates it: the host refreshes
// the roster directly, a peer tells the host.
func (s *Session) toggleMute() error {
	s.muteMu.Lock()
	s.muted = !s.muted
	muted := s.muted
	s.muteMu.Unlock()

	_ = s.table.SetMuted(s.selfSlot, muted)
	log.Info().Bool("muted", muted).Msg("mute toggled")
	if s.server != nil {
		s.server.BroadcastRoster()
		return nil
	}
	return s.client.SendMute(muted)
}
