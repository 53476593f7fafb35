// Package server assembles the kitchen back-office application: it opens
// the database, applies pending migrations, builds the domain services and
// serves the REST API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/config"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/rest"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/storage"
)

var openDB = repomanager.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

// MigrationSource returns the directory named by cfg.MigrationsDir, or nil
// for the embedded scripts.
func MigrationSource(cfg *config.Config) fs.FS {
	if cfg.MigrationsDir == "" {
		return nil
	}
	return os.DirFS(cfg.MigrationsDir)
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.Config) (*logging.SlogLogger, error) {
	return logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
}

// NewApp opens the database, brings the schema up to date and wires the
// services. A migration failure aborts startup.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := NewLogger(c)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN, repomanager.PoolOptions{
		MaxOpenConns: c.DBMaxOpenConns,
		MaxIdleConns: c.DBMaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager(MigrationSource(c), logger)

	report, err := rm.RunMigrations(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	logger.Info(ctx, "schema up to date", "applied", len(report.Applied), "skipped", len(report.Skipped))

	signer := auth.NewTokenSigner([]byte(c.SecretKey), c.SessionTTL)
	hasher := auth.NewHasher(c.BcryptCost)

	signatures := storage.NewSignatureStore(storage.Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		Endpoint:     c.S3BaseEndpoint,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		UsePathStyle: c.S3UsePathStyle,
	})
	if !signatures.Enabled() {
		logger.Warn(ctx, "signature storage disabled, set S3_BUCKET to accept signatures")
	}

	sessions := services.NewSessionService(db, rm, signer, hasher, logger)
	stock := services.NewStockService(db, rm)
	deliveries := services.NewDeliveryService(db, rm, signatures, logger)

	srv := rest.NewServer(rest.Options{
		Address:            c.HTTPAddr,
		CookieNames:        c.SessionCookieNames,
		SameSite:           c.SameSite(),
		Secure:             c.SecureCookie(),
		CORSAllowedOrigins: c.CORSAllowedOrigins,
		ShutdownTimeout:    c.ShutdownTimeout,
	}, logger, sessions, stock, deliveries)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr, "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return runErr
}
