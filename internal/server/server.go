// Package server provides the HTTP REST API for stockdeck.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stockdeck/stockdeck/internal/app"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	app        *app.App
	httpServer *http.Server
}

// NewServer creates a new HTTP server over the application container.
func NewServer(application *app.App) *Server {
	s := &Server{app: application}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, application.Logger, application.Config, application.UserStore)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Views
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/index", s.handleIndex)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/api/search", s.handleSearch)

	// Market data
	mux.HandleFunc("/api/stock-price/", s.handleStockPrice)
	mux.HandleFunc("/api/valuation/", s.handleValuation)

	// Watchlist
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistItem)

	// Portfolio (authenticated)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/", s.handlePortfolioItem)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/validate", s.handleValidate)

	// Operational
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/api/version", s.handleVersion)
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.app.Logger.Info().
		Str("addr", s.httpServer.Addr).
		Str("environment", s.app.Config.Environment).
		Msg("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
