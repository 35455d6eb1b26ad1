package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/EventSure/riskmesh-sub000/relayer/feed"
	"github.com/EventSure/riskmesh-sub000/relayer/metrics"
)

// Server provides HTTP endpoints
type Server struct {
	logger    zerolog.Logger
	ledger    Ledger
	submitter Submitter
	events    EventReader
	source    feed.Source
	metrics   *metrics.Metrics
	router    *mux.Router
	server    *http.Server
}

// NewServer creates a new Server instance. events and m may be nil; their
// endpoints are then not registered.
func NewServer(
	logger zerolog.Logger,
	port int,
	ledger Ledger,
	submitter Submitter,
	events EventReader,
	source feed.Source,
	m *metrics.Metrics,
) *Server {
	s := &Server{
		logger:    logger.With().Str("component", "api").Logger(),
		ledger:    ledger,
		submitter: submitter,
		events:    events,
		source:    source,
		metrics:   m,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("query server is nil")
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
	}

	go func() {
		err := s.server.Serve(ln)
		switch err {
		case nil:
			s.logger.Info().Msg("Query server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("Query server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("Query server error")
		}
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("query server listening")
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
