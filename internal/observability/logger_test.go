package observability

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"obscura/config"
)

func TestNewLoggerConsole(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.Format = "console"

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	log.Info("started")
	require.True(t, log.Core().Enabled(zapcore.InfoLevel))
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerDebugLevel(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.Level = "debug"

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerWithFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.LogFile = filepath.Join(t.TempDir(), "obscura.log")

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	log.Warn("rotating file sink attached")
}

func TestNewLoggerBadLevelFallsBack(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.Level = "chatty"

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.InfoLevel))
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
