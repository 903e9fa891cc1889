package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"motd/internal/logger"
)

func TestInitializeLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.WarnLevel,
	}

	for level, want := range cases {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, logger.Initialize(level, ""))
			defer logger.Cleanup()

			assert.True(t, logger.Logger.Core().Enabled(want))
			if want > zapcore.DebugLevel {
				assert.False(t, logger.Logger.Core().Enabled(want-1))
			}
		})
	}
}

func TestInitializeWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "motd.log")

	require.NoError(t, logger.Initialize("info", file))
	logger.Logger.Info("collected", zap.String("family", "load"))
	logger.Cleanup()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"family":"load"`)
	assert.Contains(t, string(data), `"timestamp"`)
}
