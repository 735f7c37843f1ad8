package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadWriteMessageRoundTrip(t *testing.T) {
	frame := make([]byte, FrameBytes)
	for i := range frame {
		frame[i] = byte(i % 16)
	}
	cases := []Message{
		{Type: MsgLeave, Slot: 2},
		{Type: MsgAccept, Slot: 1, Payload: []byte{1}},
		{Type: MsgFrame, Slot: 3, Payload: frame},
	}
	for _, in := range cases {
		var buf bytes.Buffer
		if err := WriteMessage(&buf, in); err != nil {
			t.Fatalf("write %s: %v", in.Type, err)
		}
		out, err := ReadMessage(&buf)
		if err != nil {
			t.Fatalf("read %s: %v", in.Type, err)
		}
		if out.Type != in.Type || out.Slot != in.Slot {
			t.Fatalf("header mismatch: got=%+v want=%+v", out, in)
		}
		if !bytes.Equal(out.Payload, in.Payload) {
			t.Fatalf("payload mismatch for %s", in.Type)
		}
	}
}

func TestReadMessageCleanCloseIsEOF(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadMessagePartialHeaderIsTruncated(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{1, 2, 0}))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadMessagePartialPayloadIsTruncated(t *testing.T) {
	head := EncodeHeader(MsgFrame, 0, FrameBytes)
	_, err := ReadMessage(bytes.NewReader(append(head[:], 1, 2, 3)))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadMessageRejectsOversizedDeclaration(t *testing.T) {
	head := EncodeHeader(MsgFrame, 0, MaxPayload+1)
	_, err := ReadMessage(bytes.NewReader(head[:]))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestReadMessageRejectsReservedBytes(t *testing.T) {
	head := EncodeHeader(MsgMute, 0, 0)
	head[2] = 0xAA
	_, err := ReadMessage(bytes.NewReader(head[:]))
	if !errors.Is(err, ErrReservedNonZero) {
		t.Fatalf("expected ErrReservedNonZero, got %v", err)
	}
}

func TestWriteMessageRejectsOversizedPayload(t *testing.T) {
	err := WriteMessage(io.Discard, Message{Type: MsgFrame, Payload: make([]byte, MaxPayload+1)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestJoinPayloadRoundTrip(t *testing.T) {
	payload, err := EncodeJoin("alice")
	if err != nil {
		t.Fatalf("encode join: %v", err)
	}
	if len(payload) != 6 || payload[5] != 0 {
		t.Fatalf("unexpected join payload: %v", payload)
	}
	name, err := ParseJoin(payload)
	if err != nil || name != "alice" {
		t.Fatalf("parse join: name=%q err=%v", name, err)
	}
}

func TestJoinPayloadBounds(t *testing.T) {
	long := make([]byte, MaxUsername)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := EncodeJoin(string(long)); !errors.Is(err, ErrBadUsername) {
		t.Fatalf("expected ErrBadUsername for long name, got %v", err)
	}
	if _, err := ParseJoin([]byte("no-terminator")); !errors.Is(err, ErrBadUsername) {
		t.Fatalf("expected ErrBadUsername without NUL, got %v", err)
	}
	if _, err := ParseJoin([]byte{0}); !errors.Is(err, ErrBadUsername) {
		t.Fatalf("expected ErrBadUsername for empty name, got %v", err)
	}
}

func TestAcceptPayload(t *testing.T) {
	slot, ok, err := ParseAccept(EncodeAccept(2))
	if err != nil || !ok || slot != 2 {
		t.Fatalf("accept(2): slot=%d ok=%v err=%v", slot, ok, err)
	}
	_, ok, err = ParseAccept(EncodeAccept(SlotNone))
	if err != nil || ok {
		t.Fatalf("accept(full): ok=%v err=%v", ok, err)
	}
	if _, _, err := ParseAccept([]byte{MaxParticipants}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload for out-of-range slot, got %v", err)
	}
	if _, _, err := ParseAccept(nil); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload for empty accept, got %v", err)
	}
}

func TestMutePayload(t *testing.T) {
	for _, want := range []bool{true, false} {
		got, err := ParseMute(EncodeMute(want))
		if err != nil || got != want {
			t.Fatalf("mute(%v): got=%v err=%v", want, got, err)
		}
	}
	if _, err := ParseMute([]byte{7}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
}
