// Package server initializes and runs the person API server. It wires the
// database pool, the process-local index, and the HTTP endpoint, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akarpovs/personapi/internal/logging"
	"github.com/akarpovs/personapi/internal/server/config"
	"github.com/akarpovs/personapi/internal/server/httpapi"
	"github.com/akarpovs/personapi/internal/server/index"
	"github.com/akarpovs/personapi/internal/server/persons"
	"github.com/akarpovs/personapi/internal/server/shared/db"
)

type App struct {
	config *config.Config
	logger logging.Logger
	dbm    db.RepositoryManager
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	m, err := db.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	// One index per process, shared by every request.
	idx := index.New()
	service := persons.NewService(m.Persons(), idx, logger)

	srv := httpapi.NewServer(c.EndpointAddr, logger, service, m.Pool(), c.ShutdownTimeout)

	return &App{config: c, logger: logger, dbm: m, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.dbm.Close()
}
