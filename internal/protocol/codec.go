package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// EncodeHeader lays out the fixed header: type(1) slot(1) reserved(2)
// size(4, big-endian).
func EncodeHeader(t MsgType, slot uint8, size uint32) [HeaderLen]byte {
	var buf [HeaderLen]byte
	buf[0] = byte(t)
	buf[1] = slot
	binary.BigEndian.PutUint32(buf[4:8], size)
	return buf
}

// DecodeHeader parses a fixed header without validating the message type;
// unknown types are a dispatch concern, not a framing one.
func DecodeHeader(b []byte) (MsgType, uint8, uint32, error) {
	if len(b) != HeaderLen {
		return 0, 0, 0, ErrShortHeader
	}
	if b[2] != 0 || b[3] != 0 {
		return 0, 0, 0, ErrReservedNonZero
	}
	size := binary.BigEndian.Uint32(b[4:8])
	if size > MaxPayload {
		return 0, 0, 0, ErrPayloadTooLarge
	}
	return MsgType(b[0]), b[1], size, nil
}

// WriteMessage writes one complete message. Header and payload go out in a
// single Write so concurrent senders guarded by one mutex never interleave
// partial messages on the stream.
func WriteMessage(w io.Writer, m Message) error {
	if len(m.Payload) > MaxPayload {
		return ErrPayloadTooLarge
	}
	buf := make([]byte, HeaderLen+len(m.Payload))
	head := EncodeHeader(m.Type, m.Slot, uint32(len(m.Payload)))
	copy(buf, head[:])
	copy(buf[HeaderLen:], m.Payload)
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}

// ReadMessage blocks until one complete message is read. io.EOF with zero
// header bytes consumed means the peer closed cleanly; any partial read
// surfaces as ErrTruncated wrapping the transport error.
func ReadMessage(r io.Reader) (Message, error) {
	var head [HeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, ErrTruncated
		}
		return Message{}, err
	}

	t, slot, size, err := DecodeHeader(head[:])
	if err != nil {
		return Message{}, err
	}

	msg := Message{Type: t, Slot: slot}
	if size == 0 {
		return msg, nil
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, ErrTruncated
		}
		return Message{}, err
	}
	msg.Payload = payload
	return msg, nil
}
