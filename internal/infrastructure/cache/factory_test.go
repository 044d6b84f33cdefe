package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/morrillo/blo-migration/internal/infrastructure/config"
)

// port 1 is never served, so the ping fails immediately
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestRunLockFactory_FallsBackToMemory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	factory := NewRunLockFactory(unreachableRedis, WithLogger(zap.New(core)))

	lock, err := factory.Create(context.Background())

	require.NoError(t, err)
	assert.IsType(t, &InMemoryRunLock{}, lock)
	assert.Equal(t, 1, logs.Len())
}

func TestRunLockFactory_RequiresRedis(t *testing.T) {
	factory := NewRunLockFactory(unreachableRedis, WithInMemoryFallback(false))

	lock, err := factory.Create(context.Background())

	assert.Error(t, err)
	assert.Nil(t, lock)
}
