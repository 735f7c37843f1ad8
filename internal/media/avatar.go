package media

import (
	"hash/fnv"

	"github.com/danmuck/meshcam/internal/protocol"
)

// Avatar is the synthetic per-user frame source: a bobbing disc over a
// ripple background, both varied by a username-derived seed so every
// participant looks different without any capture hardware.
type Avatar struct {
	seed uint32
}

func NewAvatar(username string) *Avatar {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return &Avatar{seed: h.Sum32()}
}

func (a *Avatar) Next(tick uint64) []byte {
	frame := blank()
	phase := int(tick % 64)
	base := int(a.seed % PaletteSize)

	cx := protocol.FrameWidth / 2
	cy := protocol.FrameHeight/2 + bob(phase)
	radius := protocol.FrameHeight / 4

	for y := 0; y < protocol.FrameHeight; y++ {
		for x := 0; x < protocol.FrameWidth; x++ {
			dx, dy := x-cx, y-cy
			idx := y*protocol.FrameWidth + x
			if dx*dx+dy*dy <= radius*radius {
				frame[idx] = byte((base + 8 + (dx+dy+phase)/8) % PaletteSize)
				continue
			}
			ripple := (x + y + phase + int(a.seed>>8)) / 6
			frame[idx] = byte((base + ripple) % PaletteSize)
		}
	}
	return frame
}

// bob is a small triangle wave so the disc drifts up and down.
func bob(phase int) int {
	if phase >= 32 {
		phase = 64 - phase
	}
	return phase/8 - 2
}
