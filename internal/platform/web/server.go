// Package web serves the game to browsers: an embedded canvas page, one
// engine per WebSocket and a small JSON API over the run history.
package web

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/gridsnake/internal/session"
)

//go:embed static
var staticFiles embed.FS

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Session is the template every socket's game is built from.
	// Its Store is shared by all sessions and owned by the caller.
	Session session.Options

	// OriginPatterns lists extra hosts allowed to open sockets cross-origin.
	OriginPatterns []string

	// WriteTimeout bounds a single snapshot write to a slow client.
	WriteTimeout time.Duration

	Logger *log.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		WriteTimeout: 5 * time.Second,
	}
}

// Server is the HTTP + WebSocket front end.
type Server struct {
	config   Config
	router   *mux.Router
	server   *http.Server
	sessions *session.Registry
	logger   *log.Logger
}

// NewServer creates a web server with its routes registered.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Session.Engine.Validate(); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		config:   cfg,
		router:   mux.NewRouter(),
		sessions: session.NewRegistry(),
		logger:   logger,
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}

	s.router.HandleFunc("/ws", s.handleSocket).Methods(http.MethodGet)
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/highscore", s.handleHighScore).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)
	s.router.Use(s.loggingMiddleware)

	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// loggingMiddleware logs each request at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "address", s.config.Address)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.sessions.CloseAll()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Sockets are hijacked, so Shutdown does not wait for them; end the games first.
	s.sessions.CloseAll()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Sessions returns the number of games in progress.
func (s *Server) Sessions() int {
	return s.sessions.Count()
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
