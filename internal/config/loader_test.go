package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHome points the user config lookup at dir for the duration of the test.
func withHome(t *testing.T, dir string) {
	t.Helper()
	original := osUserHomeDir
	t.Cleanup(func() { osUserHomeDir = original })
	osUserHomeDir = func() (string, error) { return dir, nil }
}

func writeUserConfig(t *testing.T, home, content string) string {
	t.Helper()
	dir := filepath.Join(home, userConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenNoUserFile(t *testing.T) {
	withHome(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultsWithoutHome(t *testing.T) {
	original := osUserHomeDir
	t.Cleanup(func() { osUserHomeDir = original })
	osUserHomeDir = func() (string, error) { return "", errors.New("$HOME is not defined") }

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UserOverride(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	writeUserConfig(t, home, `
irc:
  server: irc.libera.chat
  nick: kit
  tls: false
theme:
  accent: "#89B4FA"
  icons: true
layout:
  width: 100
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "irc.libera.chat", cfg.IRC.Server)
	assert.Equal(t, "kit", cfg.IRC.Nick)
	assert.False(t, cfg.IRC.TLS, "explicit false overrides the default")
	assert.Equal(t, DefaultPort, cfg.IRC.Port, "unset keys keep defaults")
	assert.Equal(t, DefaultQuitMessage, cfg.IRC.QuitMessage)
	assert.Equal(t, "#89B4FA", cfg.Theme.Accent)
	assert.True(t, cfg.Theme.Icons)
	assert.Equal(t, 100, cfg.Layout.Width)
	assert.Equal(t, DefaultPadding, cfg.Layout.Padding)
	assert.Equal(t, DefaultHeight, cfg.Layout.Height)
}

func TestLoad_ExplicitPath(t *testing.T) {
	withHome(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "meow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("irc:\n  port: 6667\n  max_reconnect_attempts: 3\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6667, cfg.IRC.Port)
	assert.Equal(t, 3, cfg.IRC.MaxReconnectAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedFile(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	path := writeUserConfig(t, home, "irc: [not, a, mapping\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_InvalidValues(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)
	writeUserConfig(t, home, "irc:\n  port: 70000\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "irc.port 70000 out of range")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"zero port", func(c *Config) { c.IRC.Port = 0 }, "irc.port 0 out of range"},
		{"blank nick", func(c *Config) { c.IRC.Nick = "  " }, "irc.nick must not be empty"},
		{"negative attempts", func(c *Config) { c.IRC.MaxReconnectAttempts = -1 }, "irc.max_reconnect_attempts must not be negative"},
		{"negative padding", func(c *Config) { c.Layout.Padding = -2 }, "layout.padding must not be negative"},
		{"width not above padding", func(c *Config) { c.Layout.Width = 2 }, "layout.width 2 must exceed layout.padding 2"},
		{"zero height", func(c *Config) { c.Layout.Height = 0 }, "layout.height must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
