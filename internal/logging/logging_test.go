package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/f3rmion/caucus/internal/config"
	"github.com/f3rmion/caucus/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		for _, format := range []string{"json", "console"} {
			logger, err := logging.New(config.LoggingConfig{Level: level, Format: format})
			require.NoError(t, err, "%s/%s", level, format)
			want, _ := zapcore.ParseLevel(level)
			assert.True(t, logger.Core().Enabled(want))
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caucus.log")
	logger, err := logging.New(config.LoggingConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Info("impro generated")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "impro generated")
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New(config.LoggingConfig{Level: "chatty", Format: "json"})
	assert.ErrorContains(t, err, "parsing log level")

	_, err = logging.New(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")
}
