package config

import (
	"fmt"
	"os"
)

func Template() string {
	return sessionTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(sessionTemplate), 0o600)
}

const sessionTemplate = `username = "guest"

# Leave connect empty to host a session; set it to join one.
connect = ""
listen = ":9344"

# Optional animation file played instead of the synthetic avatar.
frame_path = ""

# Optional status/metrics endpoint; empty disables it.
admin_addr = ""
cors_origins = ["http://localhost:3000"]

frame_interval = "200ms"
render_interval = "100ms"
`
