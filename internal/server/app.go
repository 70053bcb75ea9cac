// Package server initializes and runs the teamspace server: it opens the
// database, applies migrations, wires the identity service, and starts the
// HTTP endpoint with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tensillabs/teamspace/internal/logging"
	"github.com/tensillabs/teamspace/internal/server/config"
	httpserver "github.com/tensillabs/teamspace/internal/server/http"
	"github.com/tensillabs/teamspace/internal/server/identity"
	"github.com/tensillabs/teamspace/internal/server/repositories/repomanager"
	"github.com/tensillabs/teamspace/internal/server/tokens"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	identity   *identity.Service
	httpServer *httpserver.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := tokens.NewIssuer([]byte(c.SecretKey),
		c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	notifier := identity.NewLogNotifier(logger)

	is := identity.NewService(db, rm, issuer, notifier, logger, c)
	hs := httpserver.NewServer(c.EndpointAddr, is, issuer, logger)

	return &App{config: c, logger: logger, db: db, identity: is, httpServer: hs}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
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

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database failed", "error", err.Error())
	}
}
