package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Defaults(t *testing.T) {
	cfg, err := Setup(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "skirmish", cfg.Engine)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.True(t, cfg.ExposeErrors)
	assert.False(t, cfg.LogTurns)
	assert.Empty(t, cfg.RedisUrl)
	assert.Empty(t, cfg.MongoUri)
	assert.Equal(t, 100, cfg.TurnHistoryLimit)
	assert.Equal(t, 256, cfg.RecordQueueSize)
	assert.False(t, cfg.ObserverEnabled())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestSetup_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9090\nENGINE=custom\nEXPOSE_ERRORS=false\nREDIS_URL=localhost:6379\nSHUTDOWN_TIMEOUT=2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ENGINE", "skirmish")
	t.Setenv("OBSERVER_PORT", "8081")

	cfg, err := Setup(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "skirmish", cfg.Engine, "environment wins over file")
	assert.False(t, cfg.ExposeErrors)
	assert.Equal(t, "localhost:6379", cfg.RedisUrl)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.ObserverEnabled())
	assert.Equal(t, ":8081", cfg.ObserverAddr())
}

func TestSetup_Invalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	_, err := Setup("")
	assert.ErrorContains(t, err, "SERVER_PORT")
}

func TestConfig_Validate(t *testing.T) {
	base := Config{ServerPort: 8080, Engine: "skirmish", MaxBodyBytes: 1, TurnHistoryLimit: 1}
	require.NoError(t, base.Validate())

	same := base
	same.ObserverPort = 8080
	assert.Error(t, same.Validate())

	noEngine := base
	noEngine.Engine = ""
	assert.Error(t, noEngine.Validate())

	noBody := base
	noBody.MaxBodyBytes = 0
	assert.Error(t, noBody.Validate())

	negativeQueue := base
	negativeQueue.RecordQueueSize = -1
	assert.Error(t, negativeQueue.Validate())
}

func TestConfig_AddrWithHost(t *testing.T) {
	cfg := Config{ServerHost: "127.0.0.1", ServerPort: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
}
