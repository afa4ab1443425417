// Package config loads the optional YAML config file. A missing file is
// not an error; every field has a default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/julianstephens/remindue/internal/constants"
)

type Config struct {
	// Storage is a SQLite file path or a postgres:// connection string.
	Storage string `yaml:"storage"`
	// Debug enables debug logging and the stderr mirror.
	Debug bool `yaml:"debug"`
	// ActionListenAddr is the loopback address for notification action
	// callbacks from the tray.
	ActionListenAddr string `yaml:"action_listen_addr"`
}

// DefaultDir returns the application config directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(base, constants.AppName), nil
}

func defaults(dir string) Config {
	return Config{
		Storage:          filepath.Join(dir, constants.AppName+".db"),
		ActionListenAddr: constants.DefaultActionListenAddr,
	}
}

// Load reads config.yaml from dir, applying defaults for absent fields.
func Load(dir string) (Config, error) {
	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Storage == "" {
		cfg.Storage = defaults(dir).Storage
	}
	if cfg.ActionListenAddr == "" {
		cfg.ActionListenAddr = constants.DefaultActionListenAddr
	}

	return cfg, nil
}
