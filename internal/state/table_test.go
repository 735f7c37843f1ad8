package state

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/meshcam/internal/protocol"
)

func TestClaimCapsAtMaxParticipants(t *testing.T) {
	table := NewTable()
	for i := 0; i < protocol.MaxParticipants; i++ {
		idx, ok := table.Claim("user")
		if !ok || idx != i {
			t.Fatalf("claim %d: idx=%d ok=%v", i, idx, ok)
		}
	}
	before := table.Snapshot()
	if _, ok := table.Claim("overflow"); ok {
		t.Fatalf("claim succeeded on full table")
	}
	if table.Snapshot() != before {
		t.Fatalf("failed claim mutated state")
	}
}

func TestClaimReusesFreedSlot(t *testing.T) {
	table := NewTable()
	table.Claim("a")
	table.Claim("b")
	table.Release(0)
	idx, ok := table.Claim("c")
	if !ok || idx != 0 {
		t.Fatalf("expected slot 0 reuse, got idx=%d ok=%v", idx, ok)
	}
}

func TestReleaseResetsSlot(t *testing.T) {
	table := NewTable()
	idx, _ := table.Claim("alice")
	frame := bytes.Repeat([]byte{9}, protocol.FrameBytes)
	if err := table.SetFrame(idx, frame); err != nil {
		t.Fatalf("set frame: %v", err)
	}
	if err := table.SetMuted(idx, true); err != nil {
		t.Fatalf("set muted: %v", err)
	}

	table.Release(idx)

	slot := table.Snapshot()[idx]
	if slot.Active || slot.Muted || slot.Username != "" {
		t.Fatalf("slot not reset: %+v", slot)
	}
	if slot.Frame != [protocol.FrameBytes]byte{} {
		t.Fatalf("frame not zeroed on release")
	}
}

func TestSetMetaInactiveForcesReset(t *testing.T) {
	table := NewTable()
	idx, _ := table.Claim("alice")
	table.SetMuted(idx, true)
	table.SetFrame(idx, bytes.Repeat([]byte{3}, protocol.FrameBytes))

	if err := table.SetMeta(idx, "alice", false, true); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	slot := table.Snapshot()[idx]
	if slot.Active || slot.Muted || slot.Frame != [protocol.FrameBytes]byte{} {
		t.Fatalf("inactive slot retained state: %+v", slot)
	}
}

func TestSetMutedIgnoresInactiveSlot(t *testing.T) {
	table := NewTable()
	if err := table.SetMuted(2, true); err != nil {
		t.Fatalf("set muted: %v", err)
	}
	if table.Snapshot()[2].Muted {
		t.Fatalf("mute stuck to inactive slot")
	}
}

func TestSetFrameValidation(t *testing.T) {
	table := NewTable()
	if err := table.SetFrame(-1, make([]byte, protocol.FrameBytes)); !errors.Is(err, ErrSlotIndex) {
		t.Fatalf("expected ErrSlotIndex, got %v", err)
	}
	if err := table.SetFrame(0, make([]byte, 10)); !errors.Is(err, ErrFrameSize) {
		t.Fatalf("expected ErrFrameSize, got %v", err)
	}
}

func TestApplyRosterIsIdempotent(t *testing.T) {
	table := NewTable()
	entries := []protocol.RosterEntry{
		{Slot: 0, Active: true, Muted: false, Username: "alice"},
		{Slot: 1, Active: true, Muted: true, Username: "bob"},
		{Slot: 2, Active: false},
		{Slot: 3, Active: false},
	}
	table.ApplyRoster(entries)
	first := table.Snapshot()
	table.ApplyRoster(entries)
	if table.Snapshot() != first {
		t.Fatalf("second roster application changed state")
	}
	if first[1].Username != "bob" || !first[1].Muted {
		t.Fatalf("roster not applied: %+v", first[1])
	}
}

func TestApplyRosterDeactivationClearsFrame(t *testing.T) {
	table := NewTable()
	table.ApplyRoster([]protocol.RosterEntry{{Slot: 1, Active: true, Username: "bob"}})
	table.SetFrame(1, bytes.Repeat([]byte{5}, protocol.FrameBytes))

	table.ApplyRoster([]protocol.RosterEntry{{Slot: 1, Active: false}})
	if table.Snapshot()[1].Frame != [protocol.FrameBytes]byte{} {
		t.Fatalf("frame survived roster deactivation")
	}
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	table := NewTable()
	idx, _ := table.Claim("alice")
	snap := table.Snapshot()
	snap[idx].Username = "mallory"
	snap[idx].Frame[0] = 0xFF
	if got := table.Snapshot()[idx]; got.Username != "alice" || got.Frame[0] != 0 {
		t.Fatalf("snapshot aliases table state: %+v", got)
	}
}

func TestRosterEntriesMatchTable(t *testing.T) {
	table := NewTable()
	table.Claim("alice")
	idx, _ := table.Claim("bob")
	table.SetMuted(idx, true)

	entries := table.RosterEntries()
	if len(entries) != protocol.MaxParticipants {
		t.Fatalf("expected %d entries, got %d", protocol.MaxParticipants, len(entries))
	}
	if entries[0].Username != "alice" || !entries[0].Active {
		t.Fatalf("entry 0 mismatch: %+v", entries[0])
	}
	if entries[1].Username != "bob" || !entries[1].Muted {
		t.Fatalf("entry 1 mismatch: %+v", entries[1])
	}
}

func TestSubscribeCoalescesNotifications(t *testing.T) {
	table := NewTable()
	ch, cancel := table.Subscribe()
	defer cancel()

	table.Claim("a")
	table.Claim("b")
	table.Release(0)

	select {
	case <-ch:
	default:
		t.Fatalf("expected a pending notification")
	}
	select {
	case <-ch:
		t.Fatalf("notifications not coalesced")
	default:
	}
}
