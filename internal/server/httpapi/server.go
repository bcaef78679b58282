// Package httpapi exposes the person service over HTTP: request decoding,
// routing, and the mapping of sentinel errors onto status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akarpovs/personapi/internal/dbx"
	"github.com/akarpovs/personapi/internal/logging"
	"github.com/akarpovs/personapi/internal/server/persons"
)

type Server struct {
	address         string
	handler         http.Handler
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewServer(address string, logger logging.Logger, service *persons.Service, db dbx.Querier, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		handler:         NewRouter(service, db, logger),
		logger:          logger.With("component", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// NewRouter wires the handlers onto a ServeMux. Method patterns keep
// POST /persons, GET /persons (search), and GET /persons/{id} apart.
func NewRouter(service *persons.Service, db dbx.Querier, logger logging.Logger) http.Handler {
	mux := http.NewServeMux()

	personHandler := NewPersonHandler(service, logger)
	healthHandler := NewHealthHandler(db)

	mux.HandleFunc("POST /persons", personHandler.Create)
	mux.HandleFunc("GET /persons", personHandler.Search)
	mux.HandleFunc("GET /persons/{id}", personHandler.Get)
	mux.HandleFunc("GET /persons-count", personHandler.Count)
	mux.HandleFunc("GET /healthz", healthHandler.Health)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.handler}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
