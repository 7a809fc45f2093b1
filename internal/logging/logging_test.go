package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_NoFileIsNop(t *testing.T) {
	logger, err := New(Options{Level: "debug", Verbose: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
	}{
		{"default is info", Options{}, false, true},
		{"explicit warn", Options{Level: "warn"}, false, false},
		{"upper case level", Options{Level: "DEBUG"}, true, true},
		{"verbose forces debug", Options{Level: "error", Verbose: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.File = filepath.Join(t.TempDir(), "meow.log")

			logger, err := New(tt.opts)
			require.NoError(t, err)
			t.Cleanup(func() { _ = logger.Sync() })

			assert.Equal(t, tt.wantDebug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.wantInfo, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meow.log")

	logger, err := New(Options{File: path})
	require.NoError(t, err)
	logger.Info("Connected")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Connected"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "meow.log"), Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "chatty"`)
}
