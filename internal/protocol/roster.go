package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// RosterEntry is one slot's presence line in a Roster payload.
type RosterEntry struct {
	Slot     int
	Active   bool
	Muted    bool
	Username string
}

// EncodeRoster serializes one line per slot: "<slot> <active> <muted> <username>".
// Active and muted are 0/1. Inactive slots carry an empty username.
func EncodeRoster(entries []RosterEntry) []byte {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%d %d %d %s\n", e.Slot, boolBit(e.Active), boolBit(e.Muted), e.Username)
	}
	return []byte(b.String())
}

// ParseRoster decodes a Roster payload. Blank trailing lines are ignored;
// anything else malformed rejects the whole payload.
func ParseRoster(payload []byte) ([]RosterEntry, error) {
	lines := strings.Split(string(payload), "\n")
	entries := make([]RosterEntry, 0, MaxParticipants)
	for _, line := range lines {
		if line == "" {
			continue
		}
		entry, err := parseRosterLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRosterLine(line string) (RosterEntry, error) {
	parts := strings.SplitN(line, " ", 4)
	if len(parts) < 3 {
		return RosterEntry{}, ErrBadRoster
	}
	slot, err := strconv.Atoi(parts[0])
	if err != nil || slot < 0 || slot >= MaxParticipants {
		return RosterEntry{}, ErrBadRoster
	}
	active, err := parseBit(parts[1])
	if err != nil {
		return RosterEntry{}, err
	}
	muted, err := parseBit(parts[2])
	if err != nil {
		return RosterEntry{}, err
	}
	var username string
	if len(parts) == 4 {
		username = parts[3]
	}
	if len(username) > MaxUsername-1 {
		return RosterEntry{}, ErrBadRoster
	}
	return RosterEntry{Slot: slot, Active: active, Muted: muted, Username: username}, nil
}

func parseBit(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, ErrBadRoster
	}
}

func boolBit(v bool) int {
	if v {
		return 1
	}
	return 0
}
