package sqlsource

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/config"
	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
)

const driverName = "postgres"

// OpenFunc opens a database handle for a DSN without connecting
type OpenFunc func(driverName, dsn string) (*sqlx.DB, error)

// Connector opens the legacy database with the SQL_HOST, SQL_DBNAME, SQL_USER
// and SQL_PWD parameters
type Connector struct {
	params config.ParameterStore
	cfg    config.MigrationConfig
	open   OpenFunc
}

// NewConnector creates a connector using lib/pq
func NewConnector(params config.ParameterStore, cfg config.MigrationConfig) *Connector {
	return &Connector{params: params, cfg: cfg, open: sqlx.Open}
}

// WithOpenFunc replaces the function used to open the database handle
func (c *Connector) WithOpenFunc(open OpenFunc) *Connector {
	c.open = open
	return c
}

// Mode implements migration.SourceConnector
func (c *Connector) Mode() migration.Mode {
	return migration.ModeSQL
}

// Connect validates the parameters, opens a small read pool and pings it
func (c *Connector) Connect(ctx context.Context) (migration.SourceReader, error) {
	params, err := config.LoadSQLSourceParams(ctx, c.params, c.cfg)
	if err != nil {
		return nil, err
	}

	db, err := c.open(driverName, params.DSN())
	if err != nil {
		return nil, &migration.ConnectionError{Target: params.String(), Err: err}
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx := ctx
	if c.cfg.SQLQueryTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, c.cfg.SQLQueryTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &migration.ConnectionError{Target: params.String(), Err: err}
	}

	logger.L(ctx).Info("Connected to legacy database",
		zap.String("target", params.String()),
		zap.Duration("query_timeout", c.cfg.SQLQueryTimeout),
	)
	return NewReader(db, c.cfg.SQLQueryTimeout), nil
}

var _ migration.SourceConnector = (*Connector)(nil)
