// Package httpapi exposes the compliance checker over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/propcheck/compliance"
	"github.com/rustyeddy/propcheck/config"
	"github.com/rustyeddy/propcheck/journal"
)

// Server is the HTTP front end of the checker.
type Server struct {
	router         *mux.Router
	server         *http.Server
	checker        *compliance.Checker
	journal        journal.Journal
	metrics        *Metrics
	log            zerolog.Logger
	tokens         [][]byte
	limiter        *rate.Limiter
	requestTimeout time.Duration
}

type Option func(*Server)

// WithJournal records every successful validation in j.
func WithJournal(j journal.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithRegistry registers the server metrics on reg instead of a private
// registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = NewMetrics(reg)
	}
}

// NewServer builds the router and the underlying http.Server for cfg.
func NewServer(cfg config.ServerConfig, checker *compliance.Checker, opts ...Option) (*Server, error) {
	read, write, request, err := cfg.Timeouts()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:         mux.NewRouter(),
		checker:        checker,
		journal:        journal.Noop{},
		log:            zerolog.Nop(),
		requestTimeout: request,
	}
	for _, t := range cfg.APITokens {
		s.tokens = append(s.tokens, []byte(t))
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.NewRegistry())
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.timeoutMiddleware)

	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.jsonContentTypeMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.Use(s.authMiddleware)

	api.HandleFunc("/validate", s.validate).Methods(http.MethodPost)
	api.HandleFunc("/firms", s.listFirms).Methods(http.MethodGet)
	api.HandleFunc("/firms/{slug}", s.getFirm).Methods(http.MethodGet)
	api.HandleFunc("/firms/{slug}/tiers/{size}", s.getTier).Methods(http.MethodGet)
	api.HandleFunc("/detect", s.detect).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down http server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
