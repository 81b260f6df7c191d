package dynamock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/dynamock"
)

func TestDefaultConfig(t *testing.T) {
	cfg := dynamock.DefaultConfig()
	assert.True(t, cfg.RejectClientEvaluation)
	assert.Empty(t, cfg.LogLevel)
	assert.Nil(t, cfg.DefaultCommandResult)
}

func TestParseConfig(t *testing.T) {
	cfg, err := dynamock.ParseConfig([]byte(`
log_level: debug
reject_client_evaluation: false
default_command_result: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.RejectClientEvaluation)
	require.NotNil(t, cfg.DefaultCommandResult)
	assert.Equal(t, int64(2), *cfg.DefaultCommandResult)

	cfg, err = dynamock.ParseConfig([]byte(`log_level: warn`))
	require.NoError(t, err)
	assert.True(t, cfg.RejectClientEvaluation, "unset keys keep their defaults")

	_, err = dynamock.ParseConfig([]byte(`log_level: loud`))
	assert.Error(t, err)

	_, err = dynamock.ParseConfig([]byte(`reject_client_evaluation: [`))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dynamock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o600))

	cfg, err := dynamock.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)

	db, err := dynamock.New(dynamock.WithConfig(cfg))
	require.NoError(t, err)
	assert.NotNil(t, db.Logger())

	_, err = dynamock.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewRejectsInvalidLogLevel(t *testing.T) {
	_, err := dynamock.New(dynamock.WithConfig(&dynamock.Config{LogLevel: "shout"}))
	assert.Error(t, err)
}
