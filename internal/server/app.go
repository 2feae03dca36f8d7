// Package server wires configuration, storage, services and the HTTP and
// gRPC front ends together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cardtrack/internal/logging"
	"github.com/dmitrijs2005/cardtrack/internal/server/auth"
	"github.com/dmitrijs2005/cardtrack/internal/server/config"
	"github.com/dmitrijs2005/cardtrack/internal/server/httpapi"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cardtrack/internal/server/services"

	gs "github.com/dmitrijs2005/cardtrack/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	httpServer *httpapi.HTTPServer
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel)

	if c.UsesDevSecret() {
		logger.Warn(ctx, "using the built-in development secret key; set CARDTRACK_SECRET_KEY in production")
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	guard := services.NewGuard(db, rm, c, logger)
	deps := httpapi.Deps{
		Users:    services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), c),
		Cards:    services.NewCardService(db, rm, guard),
		Comments: services.NewCommentService(db, rm, guard),
		Auth:     guard,
		DB:       db,
	}

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, deps, c),
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runServer runs one front end; if it fails, the whole app is stopped.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
