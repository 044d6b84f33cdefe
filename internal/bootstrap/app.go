// Package bootstrap assembles the migration service from configuration.
// Both the HTTP server and the command line tool build their dependencies here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	appmigration "github.com/morrillo/blo-migration/internal/application/migration"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/cache"
	"github.com/morrillo/blo-migration/internal/infrastructure/config"
	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence"
	"github.com/morrillo/blo-migration/internal/infrastructure/source/rpcsource"
	"github.com/morrillo/blo-migration/internal/infrastructure/source/sqlsource"
	"github.com/morrillo/blo-migration/internal/infrastructure/storage"
	"github.com/morrillo/blo-migration/internal/infrastructure/telemetry"
)

// App holds the wired collaborators of one process
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Database  *persistence.Database
	Telemetry *telemetry.Provider
	Service   *appmigration.InvoiceMigrationService
	RPC       migration.SourceConnector
	SQL       migration.SourceConnector
	Context   migration.MigrationContext
	Defaults  appmigration.RunOptions

	closers []func(context.Context) error
}

// NewLogger creates the process logger from the log section of cfg
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
}

// New wires the application. On error everything opened so far is closed.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (app *App, err error) {
	app = &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	}()

	app.Telemetry, err = telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		ExportInterval:    cfg.Telemetry.ExportInterval,
	}, log)
	if err != nil {
		return app, fmt.Errorf("init telemetry: %w", err)
	}
	app.closers = append(app.closers, app.Telemetry.Shutdown)

	app.Database, err = persistence.NewDatabase(&cfg.Database, log,
		persistence.WithTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled))
	if err != nil {
		return app, &migration.ConnectionError{Target: "target store", Err: err}
	}
	app.closers = append(app.closers, func(context.Context) error { return app.Database.Close() })
	log.Info("Target store connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	db := app.Database.DB
	resolver := appmigration.NewCorrelationResolver(
		persistence.NewGormJournalRepository(db),
		persistence.NewGormPartnerRepository(db),
		persistence.NewGormProductRepository(db),
	)

	blobs, err := storage.NewBlobStore(ctx, &cfg.Storage, log)
	if err != nil {
		return app, fmt.Errorf("init attachment storage: %w", err)
	}

	var lock appmigration.RunLock
	if cfg.Migration.LockEnabled {
		lock, err = cache.NewRunLockFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.App.Env != "production"),
		).Create(ctx)
		if err != nil {
			return app, fmt.Errorf("init run lock: %w", err)
		}
		if c, ok := lock.(io.Closer); ok {
			app.closers = append(app.closers, func(context.Context) error { return c.Close() })
		}
	}

	metrics, err := telemetry.NewMigrationMetrics(app.Telemetry.Meter("blo-migration/migration"))
	if err != nil {
		return app, fmt.Errorf("init migration metrics: %w", err)
	}

	app.Service = appmigration.NewInvoiceMigrationService(appmigration.InvoiceMigrationServiceConfig{
		Resolver:    resolver,
		Builder:     appmigration.NewPayloadBuilder(),
		Invoices:    persistence.NewGormInvoiceRepository(db),
		Attachments: appmigration.NewAttachmentCopier(blobs, persistence.NewGormAttachmentRepository(db), log),
		Lock:        lock,
		Metrics:     metrics,
		Logger:      log,
	})

	// Parameters stored in the target store win over the config file and environment.
	params := config.NewChainParameterStore(
		persistence.NewGormConfigParameterRepository(db),
		config.NewEnvParameterStore(),
	)
	app.RPC = rpcsource.NewConnector(params, cfg.Migration.RPCTimeout)
	app.SQL = sqlsource.NewConnector(params, cfg.Migration)

	app.Context = migration.MigrationContext{
		CompanyID:       cfg.Migration.CompanyID,
		CompanyCurrency: cfg.Migration.CompanyCurrency,
		ActingUserID:    cfg.Migration.ActingUserID,
	}
	app.Defaults = appmigration.RunOptions{
		CopyAttachments: cfg.Migration.CopyAttachments,
		InvoiceTimeout:  cfg.Migration.InvoiceTimeout,
		LockKey:         appmigration.DefaultLockKey,
		LockTTL:         cfg.Migration.LockTTL,
	}
	return app, nil
}

// Connector returns the source connector of mode
func (a *App) Connector(mode migration.Mode) (migration.SourceConnector, error) {
	switch mode {
	case migration.ModeRPC:
		return a.RPC, nil
	case migration.ModeSQL:
		return a.SQL, nil
	default:
		return nil, &migration.ConfigurationError{Invalid: []string{fmt.Sprintf("mode %q", mode)}}
	}
}

// Close releases resources in reverse order of creation
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
