// Package dashboard serves the web UI, its JSON API and the live news
// websocket.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/engine"
	"github.com/rustyeddy/fxdash/journal"
	"github.com/rustyeddy/fxdash/monitor"
	"github.com/rustyeddy/fxdash/risk"
)

// Server manages the HTTP server and routes
type Server struct {
	cfg     *config.Config
	engine  *engine.Engine
	journal journal.Store
	monitor *monitor.Monitor
	policy  risk.Policy
	hub     *Hub
	page    *template.Template
	log     zerolog.Logger

	router *http.ServeMux
	server *http.Server
}

// New wires the routes. store and mon may be nil; the matching endpoints
// then report the feature as unavailable.
func New(eng *engine.Engine, store journal.Store, mon *monitor.Monitor, log zerolog.Logger) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	cfg := eng.Config()
	s := &Server{
		cfg:     cfg,
		engine:  eng,
		journal: store,
		monitor: mon,
		policy:  risk.NewPolicy(cfg.Risk),
		page:    page,
		log:     log.With().Str("component", "dashboard").Logger(),
	}
	s.hub = NewHub(s.log)
	if mon != nil {
		s.hub.backlog = mon.Recent
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler is the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(s.router)
}

// Run starts the background work behind the server: the news fan-out to
// websocket clients and the periodic snapshot refresh. It returns when
// ctx is done.
func (s *Server) Run(ctx context.Context) {
	if s.monitor != nil {
		items, unsubscribe := s.monitor.Subscribe()
		defer unsubscribe()
		go s.hub.Run(ctx, items)
	}

	every := time.Duration(s.cfg.Server.RefreshSeconds) * time.Second
	if every <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := s.engine.Refresh(ctx)
			s.hub.Broadcast(WSMessage{Type: "refresh", Payload: map[string]any{
				"time":       snap.Time,
				"avg_safety": snap.AvgSafety,
				"alerts":     snap.Alerts,
			}})
		}
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go s.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.server.Addr).Msg("HTTP server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- fmt.Errorf("server failed: %w", err)
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server...")
	s.hub.CloseAll()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/news", s.handleNews)
	mux.HandleFunc("GET /api/signals", s.handleSignals)
	mux.HandleFunc("GET /api/context", s.handleContext)
	mux.HandleFunc("POST /api/position-size", s.handlePositionSize)
	mux.HandleFunc("POST /api/setup-check", s.handleSetupCheck)
	mux.HandleFunc("GET /api/trades", s.handleListTrades)
	mux.HandleFunc("POST /api/trades", s.handleSaveTrade)
	mux.HandleFunc("GET /api/trades/stats", s.handleTradeStats)
	mux.HandleFunc("GET /api/trades/{id}", s.handleGetTrade)
	mux.HandleFunc("GET /ws", s.hub.HandleWebSocket)

	return mux
}
