// Package config implements JSL configuration loading.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectFile is looked up in the working directory.
	ProjectFile = ".jsl.yaml"
	// DefaultPrompt is shown by the REPL before each entry.
	DefaultPrompt = "jsl> "
)

// Config holds the settings shared by the CLI and the REPL.
type Config struct {
	LogLevel    string `yaml:"log_level"`
	MaxSteps    int64  `yaml:"max_steps"`
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`

	// Path is the file the settings came from; empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		LogLevel: "warn",
		Prompt:   DefaultPrompt,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".jsl_history")
	}
	return cfg
}

// Load loads configuration from project and user config files.
// Precedence: project (.jsl.yaml) → user (~/.jsl/config.yaml) → defaults.
func Load(projectDir string) (*Config, error) {
	home, _ := os.UserHomeDir()
	return LoadFrom(projectDir, home)
}

// LoadFrom is Load with an explicit home directory. An empty homeDir skips
// the user file.
func LoadFrom(projectDir, homeDir string) (*Config, error) {
	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if homeDir != "" {
		candidates = append(candidates, filepath.Join(homeDir, ".jsl", "config.yaml"))
	}

	for _, path := range candidates {
		cfg, err := loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if strings.HasPrefix(c.HistoryFile, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, c.HistoryFile[2:])
		}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", name)
}
