// Package render draws slot-table snapshots to a terminal. It is a pure
// consumer: it never touches the network and never runs under the slot
// table's lock.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/meshcam/internal/protocol"
	"github.com/danmuck/meshcam/internal/state"
)

// Renderer consumes one point-in-time slot snapshot.
type Renderer interface {
	Render(slots [protocol.MaxParticipants]state.Slot, self int)
}

// palette maps palette-index bytes to xterm-256 colors.
var palette = [16]int{16, 52, 88, 124, 160, 196, 202, 208, 214, 220, 226, 190, 154, 118, 82, 46}

// ANSI renders a 2x2 tile grid using half-block cells, two pixel rows per
// terminal row. Output is built fully, then written once per frame.
type ANSI struct {
	out io.Writer
}

func NewANSI(out io.Writer) *ANSI {
	return &ANSI{out: out}
}

func (r *ANSI) Render(slots [protocol.MaxParticipants]state.Slot, self int) {
	var b strings.Builder
	b.WriteString("\x1b[H")

	for row := 0; row < 2; row++ {
		left, right := row*2, row*2+1
		writeStatusLine(&b, left, right, slots, self)
		for y := 0; y < protocol.FrameHeight; y += 2 {
			writeTileRow(&b, &slots[left], y)
			b.WriteString(" ")
			writeTileRow(&b, &slots[right], y)
			b.WriteString("\x1b[0m\x1b[K\n")
		}
	}
	b.WriteString("\x1b[0m\x1b[J")

	_, _ = io.WriteString(r.out, b.String())
}

func writeTileRow(b *strings.Builder, slot *state.Slot, y int) {
	if !slot.Active {
		b.WriteString("\x1b[0m")
		b.WriteString(strings.Repeat(" ", protocol.FrameWidth))
		return
	}
	for x := 0; x < protocol.FrameWidth; x++ {
		top := color(slot.Frame[y*protocol.FrameWidth+x])
		bottom := color(slot.Frame[(y+1)*protocol.FrameWidth+x])
		fmt.Fprintf(b, "\x1b[38;5;%dm\x1b[48;5;%dm▀", top, bottom)
	}
}

func writeStatusLine(b *strings.Builder, left, right int, slots [protocol.MaxParticipants]state.Slot, self int) {
	b.WriteString("\x1b[0m")
	l := statusText(left, &slots[left], self)
	r := statusText(right, &slots[right], self)
	fmt.Fprintf(b, "%-*s %-*s\x1b[K\n", protocol.FrameWidth, l, protocol.FrameWidth, r)
}

func statusText(idx int, slot *state.Slot, self int) string {
	if !slot.Active {
		return fmt.Sprintf("[%d] (empty)", idx)
	}
	text := fmt.Sprintf("[%d] %s", idx, slot.Username)
	if idx == self {
		text += " (you)"
	}
	if slot.Muted {
		text += " [muted]"
	}
	return text
}

func color(idx byte) int {
	return palette[int(idx)%len(palette)]
}
