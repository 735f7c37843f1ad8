// Package media produces local frame buffers: a deterministic synthetic
// avatar, or frames replayed from an animation file.
package media

import "github.com/danmuck/meshcam/internal/protocol"

// PaletteSize bounds the palette-index values a source may emit.
const PaletteSize = 16

// FrameSource yields one FrameBytes buffer per tick. Implementations are
// pure with respect to (tick, construction args) so rendering stays
// reproducible.
type FrameSource interface {
	Next(tick uint64) []byte
}

func blank() []byte {
	return make([]byte, protocol.FrameBytes)
}
