package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/meshcam/internal/protocol"
)

// Config assembles one session process. ConnectAddr empty means this
// process hosts the session.
type Config struct {
	Username    string
	ConnectAddr string
	ListenAddr  string
	FramePath   string
	AdminAddr   string
	CorsOrigins []string

	FrameInterval  time.Duration
	RenderInterval time.Duration
	InputPoll      time.Duration
}

func (c Config) WithDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%d", protocol.DefaultPort)
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = 200 * time.Millisecond
	}
	if c.RenderInterval <= 0 {
		c.RenderInterval = 100 * time.Millisecond
	}
	if c.InputPoll <= 0 {
		c.InputPoll = 50 * time.Millisecond
	}
	return c
}

func (c Config) Validate() error {
	name := strings.TrimSpace(c.Username)
	if name == "" {
		return fmt.Errorf("app: username required")
	}
	if len(name) > protocol.MaxUsername-1 {
		return fmt.Errorf("app: username exceeds %d bytes", protocol.MaxUsername-1)
	}
	return nil
}

// IsHost reports the role this config resolves to.
func (c Config) IsHost() bool {
	return c.ConnectAddr == ""
}
