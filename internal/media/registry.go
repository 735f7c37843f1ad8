package media

import (
	"fmt"
	"sync"
)

// Factory builds a FrameSource from one string argument: the animation
// path for file sources, the username for procedural ones.
type Factory func(arg string) (FrameSource, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Open resolves a registered source by name. Unknown names are a config
// error, not a fallback.
func Open(name, arg string) (FrameSource, error) {
	f, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("media: unknown source %q", name)
	}
	return f(arg)
}

func init() {
	Register("avatar", func(arg string) (FrameSource, error) {
		return NewAvatar(arg), nil
	})
	Register("file", func(arg string) (FrameSource, error) {
		return OpenFile(arg)
	})
}
