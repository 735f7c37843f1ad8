package media

import (
	"errors"
	"fmt"
	"os"

	"github.com/danmuck/meshcam/internal/protocol"
)

var ErrAnimationTooShort = errors.New("media: animation file smaller than one frame")

// FileSource loops over fixed-size frames read from an animation file at
// open time. A trailing partial frame is ignored.
type FileSource struct {
	frames [][]byte
}

func OpenFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("media: read animation %s: %w", path, err)
	}
	count := len(data) / protocol.FrameBytes
	if count == 0 {
		return nil, ErrAnimationTooShort
	}
	frames := make([][]byte, count)
	for i := 0; i < count; i++ {
		frames[i] = data[i*protocol.FrameBytes : (i+1)*protocol.FrameBytes]
	}
	return &FileSource{frames: frames}, nil
}

func (f *FileSource) FrameCount() int {
	return len(f.frames)
}

func (f *FileSource) Next(tick uint64) []byte {
	return f.frames[tick%uint64(len(f.frames))]
}
