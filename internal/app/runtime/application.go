// Package runtime assembles configuration, storage, the application services
// and the HTTP server into a runnable process.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	app "github.com/yourempire/platform/internal/app"
	"github.com/yourempire/platform/internal/app/httpapi"
	"github.com/yourempire/platform/internal/app/services/uploads"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/internal/app/storage/file"
	"github.com/yourempire/platform/internal/app/storage/postgres"
	"github.com/yourempire/platform/internal/config"
	"github.com/yourempire/platform/pkg/logger"
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	app        *app.Application
	httpServer *http.Server
	db         *sql.DB
}

// NewApplication constructs a fully wired application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	})

	stores, db, err := buildStores(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	uploadStorage, err := uploads.NewDiskStorage(cfg.Uploads.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("configure uploads: %w", err)
	}
	stores.Uploads = uploadStorage

	application, err := app.New(stores, log)
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}

	if cfg.Admin.MasterPassword == "" {
		return nil, fmt.Errorf("master admin password is required (set MASTER_PASSWORD or admin.master_password)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Seed(ctx, cfg.Admin.MasterEmail, cfg.Admin.MasterPassword); err != nil {
		return nil, fmt.Errorf("seed application: %w", err)
	}

	handler, err := httpapi.NewHandler(application, httpapi.Options{
		AuditFile: cfg.Audit.File,
		AuditSize: cfg.Audit.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Application{
		cfg:        cfg,
		log:        log,
		app:        application,
		httpServer: srv,
		db:         db,
	}, nil
}

// Run starts the services and the HTTP server, blocking until the context is
// cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server, the services and the database.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := a.app.Stop(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("error stopping services")
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
	return nil
}

func buildStores(cfg *config.Config) (app.Stores, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return app.Stores{}, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return app.Stores{}, nil, fmt.Errorf("run migrations: %w", err)
		}
		store := postgres.New(db)
		return storesFrom(store), db, nil

	case "file":
		store, err := file.Open(cfg.Database.StatePath)
		if err != nil {
			return app.Stores{}, nil, fmt.Errorf("open state file %s: %w", cfg.Database.StatePath, err)
		}
		return storesFrom(store), nil, nil

	case "memory":
		// Nil fields fall back to the shared in-memory store.
		return app.Stores{}, nil, nil

	default:
		return app.Stores{}, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// backend is the composite interface every persistence driver satisfies.
type backend interface {
	storage.UserStore
	storage.LedgerStore
	storage.AdminStore
	storage.CatalogStore
	storage.PaymentStore
	storage.WithdrawalStore
	storage.AdStore
	storage.RequestStore
	storage.SettingsStore
	storage.ContentStore
}

func storesFrom(b backend) app.Stores {
	return app.Stores{
		Users:       b,
		Ledger:      b,
		Admins:      b,
		Catalog:     b,
		Payments:    b,
		Withdrawals: b,
		Ads:         b,
		Requests:    b,
		Settings:    b,
		Content:     b,
	}
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
