package host

import (
	"fmt"
	"time"
)

// Config tunes host transport behavior. Zero values take defaults.
type Config struct {
	ListenAddr       string
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

func (c Config) WithDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = ":9344"
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("host config missing listen addr")
	}
	return nil
}
