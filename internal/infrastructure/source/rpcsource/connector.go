package rpcsource

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/config"
	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrAuthenticationFailed is wrapped in the ConnectionError returned when no uid is granted
var ErrAuthenticationFailed = errors.New("authentication refused")

// Connector opens RPC sessions with the HOST, DBNAME, USER and PWD parameters
type Connector struct {
	params     config.ParameterStore
	httpClient *http.Client
}

// NewConnector creates a connector whose requests time out after timeout
func NewConnector(params config.ParameterStore, timeout time.Duration) *Connector {
	return &Connector{
		params:     params,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewConnectorWithClient creates a connector using a caller supplied HTTP client
func NewConnectorWithClient(params config.ParameterStore, httpClient *http.Client) *Connector {
	return &Connector{params: params, httpClient: httpClient}
}

// Mode implements migration.SourceConnector
func (c *Connector) Mode() migration.Mode {
	return migration.ModeRPC
}

// Connect validates the parameters, then authenticates against the legacy server
func (c *Connector) Connect(ctx context.Context) (migration.SourceReader, error) {
	params, err := config.LoadRPCSourceParams(ctx, c.params)
	if err != nil {
		return nil, err
	}

	client := NewClient(params.URL, c.httpClient)
	uid, err := client.Authenticate(ctx, params.DBName, params.User, params.Password)
	if err != nil {
		return nil, &migration.ConnectionError{Target: client.Endpoint(), Err: err}
	}
	if uid == 0 {
		return nil, &migration.ConnectionError{Target: client.Endpoint(), Err: ErrAuthenticationFailed}
	}

	logger.L(ctx).Info("Connected to legacy RPC endpoint",
		zap.String("endpoint", client.Endpoint()),
		zap.String("db", params.DBName),
		zap.Int64("uid", uid),
	)
	return NewReader(client, Session{DB: params.DBName, UID: uid, Password: params.Password}), nil
}

var _ migration.SourceConnector = (*Connector)(nil)
