package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

const (
	userConfigDir  = ".meow"
	configFileName = "config.yaml"
)

// Load reads the configuration. An empty path means the user file, which is
// optional; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		userPath, err := getUserConfigPath()
		if err != nil {
			// Without a home directory there is no user file to read.
			return cfg, nil
		}
		path = userPath
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}

	cfg, err := loadConfigFromFile(path, cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// loadConfigFromFile decodes the YAML file over base, so keys the file does
// not mention keep their base value.
func loadConfigFromFile(filePath string, base Config) (Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	config := base
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate reports settings the client cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.IRC.Port < 1 || c.IRC.Port > 65535 {
		errs = append(errs, fmt.Errorf("irc.port %d out of range", c.IRC.Port))
	}
	if strings.TrimSpace(c.IRC.Nick) == "" {
		errs = append(errs, errors.New("irc.nick must not be empty"))
	}
	if c.IRC.MaxReconnectAttempts < 0 {
		errs = append(errs, errors.New("irc.max_reconnect_attempts must not be negative"))
	}
	if c.Layout.Padding < 0 {
		errs = append(errs, errors.New("layout.padding must not be negative"))
	}
	if c.Layout.Width <= c.Layout.Padding {
		errs = append(errs, fmt.Errorf("layout.width %d must exceed layout.padding %d", c.Layout.Width, c.Layout.Padding))
	}
	if c.Layout.Height < 1 {
		errs = append(errs, errors.New("layout.height must be at least 1"))
	}

	return errors.Join(errs...)
}
