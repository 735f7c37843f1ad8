package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/meshcam/internal/app"
	"github.com/danmuck/meshcam/internal/logging"
	"github.com/danmuck/meshcam/internal/peer"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file (flags override it)")
		name       = flag.String("name", "", "display name in the session")
		connect    = flag.String("connect", "", "host address to join; empty hosts a new session")
		listen     = flag.String("listen", "", "listen address when hosting (default :9344)")
		frames     = flag.String("frames", "", "animation file played instead of the synthetic avatar")
		adminAddr  = flag.String("admin", "", "status/metrics listen address; empty disables it")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := app.Config{}.WithDefaults()
	if *configPath != "" {
		loaded, err := loadSessionConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "meshcam: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *name != "" {
		cfg.Username = *name
	}
	if *connect != "" {
		cfg.ConnectAddr = *connect
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *frames != "" {
		cfg.FramePath = *frames
	}
	if *adminAddr != "" {
		cfg.AdminAddr = *adminAddr
	}

	sess, err := app.New(cfg, app.Deps{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "meshcam: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Run(ctx); err != nil {
		if errors.Is(err, peer.ErrSessionFull) {
			fmt.Fprintln(os.Stderr, "meshcam: session full")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "meshcam: %v\n", err)
		os.Exit(1)
	}
}
