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

// Config captures the settings huum reads from its config file. Everything
// has a sensible default; the file is optional.
type Config struct {
	APIURL       string
	LegacyAPIURL string
	Timeout      time.Duration
	LogLevel     string
}

const (
	defaultConfigPath = "~/.config/huum/config.toml"
	defaultAPIURL     = "https://sauna.huum.eu"
	defaultLegacyURL  = "https://api.huum.eu"
	defaultTimeout    = 10 * time.Second
	defaultLogLevel   = "warn"
)

// Load locates and parses the huum config, falling back to defaults when
// missing.
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
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		LegacyAPIURL   string `toml:"legacy_api_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LegacyAPIURL); v != "" {
		cfg.LegacyAPIURL = v
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// BaseURLs returns the candidate login addresses in fallback order.
func (c Config) BaseURLs() []string {
	urls := []string{c.APIURL}
	if strings.TrimSpace(c.LegacyAPIURL) != "" {
		urls = append(urls, c.LegacyAPIURL)
	}
	return urls
}

func defaults() Config {
	return Config{
		APIURL:       defaultAPIURL,
		LegacyAPIURL: defaultLegacyURL,
		Timeout:      defaultTimeout,
		LogLevel:     defaultLogLevel,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
