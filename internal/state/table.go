// Package state holds the in-memory slot table shared by every loop in a
// meshcam process. All access goes through Table, which brackets its own
// lock and performs no I/O while holding it.
package state

import (
	"errors"
	"sync"

	"github.com/danmuck/meshcam/internal/protocol"
)

var (
	ErrSlotIndex = errors.New("state: slot index out of range")
	ErrFrameSize = errors.New("state: frame has wrong size")
)

// Slot is one fixed-index participant record. When Active is false, Muted
// is false and Frame is all zero.
type Slot struct {
	Active   bool
	Muted    bool
	Username string
	Frame    [protocol.FrameBytes]byte
}

// Table is the slot store. The mutex guards only the slot array; callers
// never hold it across network or render work.
type Table struct {
	mu    sync.RWMutex
	slots [protocol.MaxParticipants]Slot

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func NewTable() *Table {
	return &Table{subs: make(map[chan struct{}]struct{})}
}

// SetFrame copies one frame into a slot. The caller guarantees origin; the
// table only checks bounds and size.
func (t *Table) SetFrame(idx int, frame []byte) error {
	if idx < 0 || idx >= protocol.MaxParticipants {
		return ErrSlotIndex
	}
	if len(frame) != protocol.FrameBytes {
		return ErrFrameSize
	}
	t.mu.Lock()
	copy(t.slots[idx].Frame[:], frame)
	t.mu.Unlock()
	return nil
}

// SetMeta updates presence and identity for a slot. Deactivating a slot
// resets it: muted forced false, frame zeroed.
func (t *Table) SetMeta(idx int, username string, active, muted bool) error {
	if idx < 0 || idx >= protocol.MaxParticipants {
		return ErrSlotIndex
	}
	t.mu.Lock()
	s := &t.slots[idx]
	if active {
		s.Active = true
		s.Username = username
		s.Muted = muted
	} else {
		*s = Slot{}
	}
	t.mu.Unlock()
	t.notify()
	return nil
}

// SetMuted flips the mute flag of an active slot.
func (t *Table) SetMuted(idx int, muted bool) error {
	if idx < 0 || idx >= protocol.MaxParticipants {
		return ErrSlotIndex
	}
	t.mu.Lock()
	if t.slots[idx].Active {
		t.slots[idx].Muted = muted
	}
	t.mu.Unlock()
	t.notify()
	return nil
}

// Claim activates the first free slot for username and returns its index.
// A full table returns ok=false with no state mutated.
func (t *Table) Claim(username string) (int, bool) {
	t.mu.Lock()
	idx := -1
	for i := range t.slots {
		if !t.slots[i].Active {
			idx = i
			t.slots[i] = Slot{Active: true, Username: username}
			break
		}
	}
	t.mu.Unlock()
	if idx < 0 {
		return 0, false
	}
	t.notify()
	return idx, true
}

// Release resets a slot to its blank state.
func (t *Table) Release(idx int) {
	if idx < 0 || idx >= protocol.MaxParticipants {
		return
	}
	t.mu.Lock()
	t.slots[idx] = Slot{}
	t.mu.Unlock()
	t.notify()
}

// Snapshot copies the whole table for rendering or serialization. The lock
// is released before the copy is used.
func (t *Table) Snapshot() [protocol.MaxParticipants]Slot {
	t.mu.RLock()
	snap := t.slots
	t.mu.RUnlock()
	return snap
}

// RosterEntries builds the roster view of the current snapshot, one entry
// per slot in index order.
func (t *Table) RosterEntries() []protocol.RosterEntry {
	snap := t.Snapshot()
	entries := make([]protocol.RosterEntry, 0, protocol.MaxParticipants)
	for i, s := range snap {
		entries = append(entries, protocol.RosterEntry{
			Slot:     i,
			Active:   s.Active,
			Muted:    s.Muted,
			Username: s.Username,
		})
	}
	return entries
}

// ApplyRoster overwrites slot metadata from a received roster. Frames are
// untouched for slots that stay active; deactivated slots reset.
func (t *Table) ApplyRoster(entries []protocol.RosterEntry) {
	for _, e := range entries {
		_ = t.SetMeta(e.Slot, e.Username, e.Active, e.Muted)
	}
}

// ActiveCount reports how many slots are occupied.
func (t *Table) ActiveCount() int {
	snap := t.Snapshot()
	n := 0
	for _, s := range snap {
		if s.Active {
			n++
		}
	}
	return n
}
