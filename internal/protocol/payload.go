package protocol

import "bytes"

// EncodeJoin builds a Join payload: UTF-8 username, NUL-terminated,
// MaxUsername bytes at most including the terminator.
func EncodeJoin(username string) ([]byte, error) {
	if username == "" || len(username) > MaxUsername-1 {
		return nil, ErrBadUsername
	}
	if bytes.IndexByte([]byte(username), 0) >= 0 {
		return nil, ErrBadUsername
	}
	buf := make([]byte, len(username)+1)
	copy(buf, username)
	return buf, nil
}

// ParseJoin extracts the username from a Join payload.
func ParseJoin(payload []byte) (string, error) {
	if len(payload) == 0 || len(payload) > MaxUsername {
		return "", ErrBadUsername
	}
	nul := bytes.IndexByte(payload, 0)
	if nul <= 0 {
		return "", ErrBadUsername
	}
	return string(payload[:nul]), nil
}

// EncodeAccept builds an Accept payload: the assigned slot index, or
// SlotNone when the session is full.
func EncodeAccept(slot uint8) []byte {
	return []byte{slot}
}

// ParseAccept returns the assigned slot and whether the session had room.
func ParseAccept(payload []byte) (uint8, bool, error) {
	if len(payload) != 1 {
		return 0, false, ErrBadPayload
	}
	if payload[0] == SlotNone {
		return SlotNone, false, nil
	}
	if payload[0] >= MaxParticipants {
		return 0, false, ErrBadPayload
	}
	return payload[0], true, nil
}

// EncodeMute builds a Mute payload: one boolean byte.
func EncodeMute(muted bool) []byte {
	if muted {
		return []byte{1}
	}
	return []byte{0}
}

// ParseMute decodes a Mute payload.
func ParseMute(payload []byte) (bool, error) {
	if len(payload) != 1 || payload[0] > 1 {
		return false, ErrBadPayload
	}
	return payload[0] == 1, nil
}
