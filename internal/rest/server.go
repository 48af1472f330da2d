package rest

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/btreego"
)

// Config holds REST server configuration.
type Config struct {
	Address       string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	RateLimit     int
	EnableMetrics bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:       ":8080",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   120 * time.Second,
		RateLimit:     100,
		EnableMetrics: true,
	}
}

// Server is the REST API server.
type Server struct {
	config   *Config
	logger   *btreego.Logger
	handlers *Handlers
	handler  http.Handler
	server   *http.Server
}

// NewServer creates a REST server for db.
func NewServer(cfg *Config, db *btreego.DB, logger *btreego.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if logger == nil {
		logger = btreego.NoopLogger()
	}

	handlers := NewHandlers(db)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/tables", handlers.HandleCreateTable)
	mux.HandleFunc("GET /v1/tables", handlers.HandleListTables)
	mux.HandleFunc("GET /v1/tables/{table}", handlers.HandleGetTable)
	mux.HandleFunc("DELETE /v1/tables/{table}", handlers.HandleDropTable)
	mux.HandleFunc("POST /v1/tables/{table}/records", handlers.HandleUpsertRecord)
	mux.HandleFunc("GET /v1/tables/{table}/records", handlers.HandleListRecords)
	mux.HandleFunc("GET /v1/tables/{table}/records/{key}", handlers.HandleGetRecord)
	mux.HandleFunc("PUT /v1/tables/{table}/records/{key}", handlers.HandleUpdateRecord)
	mux.HandleFunc("DELETE /v1/tables/{table}/records/{key}", handlers.HandleDeleteRecord)
	mux.HandleFunc("GET /v1/tables/{table}/dot", handlers.HandleDOT)
	mux.HandleFunc("POST /v1/save", handlers.HandleSave)
	mux.HandleFunc("GET /healthz", handlers.HandleHealth)

	if cfg.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	middlewares := []Middleware{
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		handlers.CountRequests,
	}

	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimitMiddleware(cfg.RateLimit))
	}

	return &Server{
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		handler:  Chain(mux, middlewares...),
	}
}

// Handler returns the fully wrapped HTTP handler. It is useful for serving
// through a custom http.Server and for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start starts the REST server. It does not block.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.Address,
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}

	s.logger.Info("REST server started", "address", s.config.Address)

	go s.server.Serve(listener)

	return nil
}

// Stop gracefully stops the REST server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.logger.Info("REST server stopped")

	return nil
}
