package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"turnserver/internal/bootstrap"
)

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = RedisOptions("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = RedisOptions("redis://cache:6380/not-a-db")
	assert.Error(t, err)
}

func TestCloseBeforeInit(t *testing.T) {
	cfg := &bootstrap.Config{}
	log := zap.NewNop().Sugar()

	assert.NoError(t, NewAdapterRedis(cfg, log).Close(context.Background()))
	assert.NoError(t, NewAdapterMongo(cfg, log).Close(context.Background()))
	assert.Nil(t, NewAdapterRedis(cfg, log).GetClient())
}
