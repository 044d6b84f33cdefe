package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/config"
	"github.com/morrillo/blo-migration/internal/infrastructure/source/rpcsource"
	"github.com/morrillo/blo-migration/internal/infrastructure/source/sqlsource"
)

func TestApp_Connector(t *testing.T) {
	params := config.MapParameterStore{}
	app := &App{
		RPC: rpcsource.NewConnector(params, time.Second),
		SQL: sqlsource.NewConnector(params, config.MigrationConfig{}),
	}

	rpc, err := app.Connector(migration.ModeRPC)
	require.NoError(t, err)
	assert.Equal(t, migration.ModeRPC, rpc.Mode())

	sql, err := app.Connector(migration.ModeSQL)
	require.NoError(t, err)
	assert.Equal(t, migration.ModeSQL, sql.Mode())

	_, err = app.Connector("xmlrpc")
	var cfgErr *migration.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, migration.ErrCodeConfiguration, migration.ErrorCode(err))
}

func TestApp_CloseRunsInReverseOrder(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	app := &App{closers: []func(context.Context) error{
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return boom },
		func(context.Context) error { order = append(order, 3); return nil },
	}}

	err := app.Close(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.NoError(t, app.Close(context.Background()), "second close is a no-op")
}
