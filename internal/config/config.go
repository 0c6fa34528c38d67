package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds tally's runtime settings.
type Config struct {
	// HistoryLimit caps retained history entries; 0 keeps everything.
	HistoryLimit int `toml:"history_limit" env:"HISTORY_LIMIT"`
	// LogFile receives dispatch and subscriber failures.
	LogFile string `toml:"log_file" env:"LOG_FILE"`
	// Script is an optional JSON action script replayed at startup.
	Script string `toml:"script" env:"SCRIPT"`
}

const (
	defaultConfigPath = "~/.config/tally/config.toml"
	defaultLogFile    = "~/.local/state/tally/tally.log"
	envPrefix         = "TALLY_"
)

// Load reads the config file at path (or the default location), applies
// TALLY_* environment overrides and falls back to defaults when the file is
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{LogFile: defaultLogFile}

	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.HistoryLimit < 0 {
		return Config{}, fmt.Errorf("history_limit must be >= 0, got %d", cfg.HistoryLimit)
	}

	cfg.LogFile = strings.TrimSpace(cfg.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)

	cfg.Script = strings.TrimSpace(cfg.Script)
	if cfg.Script != "" {
		cfg.Script = mustExpand(cfg.Script)
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
