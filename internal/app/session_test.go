package app

import (
	"context"
	"testing"
	"time"

	"github.com/danmuck/meshcam/internal/protocol"
	"github.com/danmuck/meshcam/internal/state"
	"github.com/danmuck/meshcam/internal/testutil/testlog"
)

// staticSource emits a constant recognizable frame.
type staticSource struct{ fill byte }

func (s staticSource) Next(uint64) []byte {
	frame := make([]byte, protocol.FrameBytes)
	for i := range frame {
		frame[i] = s.fill
	}
	return frame
}

type nopRenderer struct{}

func (nopRenderer) Render([protocol.MaxParticipants]state.Slot, int) {}

// scriptKeys feeds key presses from a channel.
type scriptKeys struct{ ch chan byte }

func newScriptKeys() *scriptKeys {
	return &scriptKeys{ch: make(chan byte, 8)}
}

func (k *scriptKeys) Poll(timeout time.Duration) (byte, bool) {
	select {
	case b := <-k.ch:
		return b, true
	case <-time.After(timeout):
		return 0, false
	}
}

func (k *scriptKeys) Close() error { return nil }

func newTestSession(t *testing.T, cfg Config, fill byte) (*Session, *scriptKeys) {
	t.Helper()
	cfg.FrameInterval = 20 * time.Millisecond
	cfg.RenderInterval = 20 * time.Millisecond
	cfg.InputPoll = 10 * time.Millisecond
	keys := newScriptKeys()
	sess, err := New(cfg, Deps{
		Source:   staticSource{fill: fill},
		Renderer: nopRenderer{},
		Keys:     keys,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess, keys
}

func runSession(t *testing.T, ctx context.Context, sess *Session) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- sess.Run(ctx)
	}()
	select {
	case <-sess.Ready():
	case err := <-done:
		t.Fatalf("session ended before ready: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("session never became ready")
	}
	return done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{}, Deps{Source: staticSource{}, Renderer: nopRenderer{}, Keys: newScriptKeys()}); err == nil {
		t.Fatalf("expected error for missing username")
	}
	long := make([]byte, protocol.MaxUsername)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := New(Config{Username: string(long)}, Deps{Source: staticSource{}, Renderer: nopRenderer{}, Keys: newScriptKeys()}); err == nil {
		t.Fatalf("expected error for long username")
	}
}

// TestHostPeerSessionLifecycle walks the whole flow: alice hosts, bob
// joins and sees her state, toggles mute, then quits and his slot resets.
func TestHostPeerSessionLifecycle(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice, _ := newTestSession(t, Config{Username: "alice", ListenAddr: "127.0.0.1:0"}, 1)
	aliceDone := runSession(t, ctx, alice)

	bob, bobKeys := newTestSession(t, Config{Username: "bob", ConnectAddr: alice.Addr()}, 2)
	bobCtx, bobCancel := context.WithCancel(ctx)
	defer bobCancel()
	bobDone := runSession(t, bobCtx, bob)

	// Host sees bob in slot 1; bob learns alice's meta via the roster.
	waitFor(t, "bob active on host", func() bool {
		slot := alice.Table().Snapshot()[1]
		return slot.Active && slot.Username == "bob"
	})
	waitFor(t, "alice meta on bob", func() bool {
		slot := bob.Table().Snapshot()[0]
		return slot.Active && slot.Username == "alice"
	})

	// Frames flow both ways through the host.
	waitFor(t, "alice frame on bob", func() bool {
		return bob.Table().Snapshot()[0].Frame[0] == 1
	})
	waitFor(t, "bob frame on host", func() bool {
		return alice.Table().Snapshot()[1].Frame[0] == 2
	})

	// Bob toggles mute; the roster carries it back to the host view.
	bobKeys.ch <- 'm'
	waitFor(t, "bob muted on host", func() bool {
		return alice.Table().Snapshot()[1].Muted
	})

	// Bob quits; his slot frees everywhere and his process exits cleanly.
	bobKeys.ch <- 'q'
	select {
	case err := <-bobDone:
		if err != nil {
			t.Fatalf("bob session error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("bob session did not exit")
	}
	waitFor(t, "bob slot reclaimed", func() bool {
		slot := alice.Table().Snapshot()[1]
		return !slot.Active && slot.Frame == [protocol.FrameBytes]byte{}
	})

	cancel()
	select {
	case err := <-aliceDone:
		if err != nil {
			t.Fatalf("alice session error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("alice session did not exit")
	}
}

func TestPeerStartupFailsWithoutHost(t *testing.T) {
	testlog.Start(t)
	sess, _ := newTestSession(t, Config{Username: "bob", ConnectAddr: "127.0.0.1:1"}, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sess.Run(ctx); err == nil {
		t.Fatalf("expected connect failure")
	}
}
