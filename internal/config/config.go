package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything wanreader reads from its config file.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	CookiePath        string
	LogPath           string
	ExportDir         string
	RequestsPerSecond float64
	Workers           int
}

const (
	defaultConfigPath = "~/.config/wanreader/config.toml"
	defaultBaseURL    = "https://www.wanandroid.com/"
	defaultCookiePath = "~/.config/wanreader/cookies.toml"
	defaultLogPath    = "~/.local/state/wanreader/wanreader.log"
	defaultExportDir  = "~/.local/share/wanreader/articles"
	defaultTimeout    = 30 * time.Second
	defaultWorkers    = 4
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL           string  `toml:"base_url"`
		TimeoutSeconds    int     `toml:"timeout_seconds"`
		CookiePath        string  `toml:"cookie_path"`
		LogPath           string  `toml:"log_path"`
		ExportDir         string  `toml:"export_dir"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		Workers           int     `toml:"workers"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.CookiePath); v != "" {
		cfg.CookiePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = mustExpand(v)
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		BaseURL:    defaultBaseURL,
		Timeout:    defaultTimeout,
		CookiePath: mustExpand(defaultCookiePath),
		LogPath:    mustExpand(defaultLogPath),
		ExportDir:  mustExpand(defaultExportDir),
		Workers:    defaultWorkers,
	}
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
