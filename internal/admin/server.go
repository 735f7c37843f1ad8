// Package admin exposes the optional status surface of a running session:
// health, roster snapshot, prometheus metrics and a live roster stream.
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/meshcam/internal/observability"
	"github.com/danmuck/meshcam/internal/state"
)

// RosterView is one slot's JSON projection.
type RosterView struct {
	Slot     int    `json:"slot"`
	Active   bool   `json:"active"`
	Muted    bool   `json:"muted"`
	Username string `json:"username,omitempty"`
}

// Server is the admin HTTP node for one session process.
type Server struct {
	node    string
	role    string
	table   *state.Table
	started time.Time
	router  *gin.Engine
}

func New(node, role string, table *state.Table, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetrics(node))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		node:    node,
		role:    role,
		table:   table,
		started: time.Now(),
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"node":         s.node,
			"role":         s.role,
			"uptime":       time.Since(s.started).String(),
			"participants": s.table.ActiveCount(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/api/roster", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"roster": s.rosterViews()})
	})

	s.router.GET("/ws/roster", s.streamRoster)
}

func (s *Server) rosterViews() []RosterView {
	entries := s.table.RosterEntries()
	views := make([]RosterView, 0, len(entries))
	for _, e := range entries {
		views = append(views, RosterView{
			Slot:     e.Slot,
			Active:   e.Active,
			Muted:    e.Muted,
			Username: e.Username,
		})
	}
	return views
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("admin server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
