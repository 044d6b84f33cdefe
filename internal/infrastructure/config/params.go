package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/spf13/viper"
)

// Connection parameter keys of the remote RPC source
const (
	ParamHost   = "HOST"
	ParamDBName = "DBNAME"
	ParamUser   = "USER"
	ParamPwd    = "PWD"
)

// Connection parameter keys of the direct SQL source
const (
	ParamSQLHost   = "SQL_HOST"
	ParamSQLDBName = "SQL_DBNAME"
	ParamSQLUser   = "SQL_USER"
	ParamSQLPwd    = "SQL_PWD"
)

// ParameterStore is a key-value store of connection parameters.
// Get returns ok=false when the key is not set.
type ParameterStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// ChainParameterStore asks each store in order and returns the first value found
type ChainParameterStore struct {
	stores []ParameterStore
}

// NewChainParameterStore creates a new ChainParameterStore
func NewChainParameterStore(stores ...ParameterStore) *ChainParameterStore {
	return &ChainParameterStore{stores: stores}
}

// Get implements ParameterStore
func (c *ChainParameterStore) Get(ctx context.Context, key string) (string, bool, error) {
	for _, store := range c.stores {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			return "", false, fmt.Errorf("read parameter %s: %w", key, err)
		}
		if ok && value != "" {
			return value, true, nil
		}
	}
	return "", false, nil
}

// EnvParameterStore reads parameters from the [source] section of the config
// file or from MIGRATOR_SOURCE_<KEY> environment variables
type EnvParameterStore struct {
	v *viper.Viper
}

// NewEnvParameterStore creates a parameter store over config.toml and the environment.
// A missing config file leaves only the environment.
func NewEnvParameterStore() *EnvParameterStore {
	v := newViper()
	addConfigFile(v)
	_ = v.ReadInConfig()
	return &EnvParameterStore{v: v}
}

// NewViperParameterStore creates a parameter store backed by v
func NewViperParameterStore(v *viper.Viper) *EnvParameterStore {
	return &EnvParameterStore{v: v}
}

// Get implements ParameterStore
func (s *EnvParameterStore) Get(_ context.Context, key string) (string, bool, error) {
	name := "source." + strings.ToLower(key)
	if !s.v.IsSet(name) {
		return "", false, nil
	}
	return s.v.GetString(name), true, nil
}

// MapParameterStore is a fixed set of parameters
type MapParameterStore map[string]string

// Get implements ParameterStore
func (m MapParameterStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := m[key]
	return value, ok, nil
}

// RPCSourceParams are the connection parameters of the remote RPC source
type RPCSourceParams struct {
	URL      string `param:"HOST" validate:"required,url"`
	DBName   string `param:"DBNAME" validate:"required"`
	User     string `param:"USER" validate:"required"`
	Password string `param:"PWD" validate:"required"`
}

// SQLSourceParams are the connection parameters of the direct SQL source
type SQLSourceParams struct {
	Host     string `param:"SQL_HOST" validate:"required,hostname_rfc1123|ip"`
	DBName   string `param:"SQL_DBNAME" validate:"required"`
	User     string `param:"SQL_USER" validate:"required"`
	Password string `param:"SQL_PWD" validate:"required"`
	Port     int    `param:"SQL_PORT" validate:"min=1,max=65535"`
	SSLMode  string `param:"SQL_SSLMODE" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns the lib/pq connection URL of the legacy database
func (p SQLSourceParams) DSN() string {
	return postgresDSN(p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// String hides the password
func (p SQLSourceParams) String() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s", p.User, p.Host, p.Port, p.DBName)
}

var paramValidator = newParamValidator()

func newParamValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("param")
	})
	return v
}

// LoadRPCSourceParams reads and validates the RPC source parameters. Every
// missing key is reported at once, before any network access.
func LoadRPCSourceParams(ctx context.Context, store ParameterStore) (RPCSourceParams, error) {
	values, err := readParams(ctx, store, ParamHost, ParamDBName, ParamUser, ParamPwd)
	if err != nil {
		return RPCSourceParams{}, err
	}

	params := RPCSourceParams{
		URL:      strings.TrimRight(values[ParamHost], "/"),
		DBName:   values[ParamDBName],
		User:     values[ParamUser],
		Password: values[ParamPwd],
	}
	return params, validateParams(params)
}

// LoadSQLSourceParams reads and validates the SQL source parameters. Port and
// SSL mode come from the service configuration.
func LoadSQLSourceParams(ctx context.Context, store ParameterStore, cfg MigrationConfig) (SQLSourceParams, error) {
	values, err := readParams(ctx, store, ParamSQLHost, ParamSQLDBName, ParamSQLUser, ParamSQLPwd)
	if err != nil {
		return SQLSourceParams{}, err
	}

	params := SQLSourceParams{
		Host:     values[ParamSQLHost],
		DBName:   values[ParamSQLDBName],
		User:     values[ParamSQLUser],
		Password: values[ParamSQLPwd],
		Port:     cfg.SQLPort,
		SSLMode:  cfg.SQLSSLMode,
	}
	return params, validateParams(params)
}

func readParams(ctx context.Context, store ParameterStore, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[key] = strings.TrimSpace(value)
		}
	}
	return values, nil
}

func validateParams(params any) error {
	err := paramValidator.Struct(params)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	cfgErr := &migration.ConfigurationError{}
	for _, fe := range validationErrs {
		if fe.Tag() == "required" {
			cfgErr.Missing = append(cfgErr.Missing, fe.Field())
		} else {
			cfgErr.Invalid = append(cfgErr.Invalid, fe.Field())
		}
	}
	return cfgErr
}
