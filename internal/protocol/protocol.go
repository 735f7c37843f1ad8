package protocol

import "errors"

// Session geometry and wire limits.
const (
	MaxParticipants = 4
	FrameWidth      = 64
	FrameHeight     = 48
	FrameBytes      = FrameWidth * FrameHeight

	// MaxPayload bounds any declared payload size on decode. A peer
	// claiming more is a protocol violation, not a big message.
	MaxPayload = 4096

	// MaxUsername bounds the Join payload, NUL terminator included.
	MaxUsername = 32

	// SlotNone is the Accept payload value for a full session.
	SlotNone uint8 = 0xFF

	HeaderLen = 8

	DefaultPort = 9344
)

// MsgType identifies one wire message kind.
type MsgType uint8

const (
	MsgJoin   MsgType = 1
	MsgAccept MsgType = 2
	MsgFrame  MsgType = 3
	MsgMute   MsgType = 4
	MsgRoster MsgType = 5
	MsgLeave  MsgType = 6
)

func (t MsgType) String() string {
	switch t {
	case MsgJoin:
		return "join"
	case MsgAccept:
		return "accept"
	case MsgFrame:
		return "frame"
	case MsgMute:
		return "mute"
	case MsgRoster:
		return "roster"
	case MsgLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// Message is one complete wire unit. Slot meaning depends on Type:
// origin slot for Frame/Mute, assigned slot for Accept, unused otherwise.
type Message struct {
	Type    MsgType
	Slot    uint8
	Payload []byte
}

var (
	ErrShortHeader     = errors.New("protocol: short header")
	ErrReservedNonZero = errors.New("protocol: reserved header bytes not zero")
	ErrPayloadTooLarge = errors.New("protocol: declared payload exceeds limit")
	ErrTruncated       = errors.New("protocol: truncated payload")
	ErrBadUsername     = errors.New("protocol: malformed username payload")
	ErrBadRoster       = errors.New("protocol: malformed roster payload")
	ErrBadPayload      = errors.New("protocol: malformed payload")
)
