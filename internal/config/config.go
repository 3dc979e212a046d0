package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Fan-out policies for multi-URI certificate pushes.
const (
	// FanoutAll fails the run if any certificate-store update fails.
	FanoutAll = "all"
	// FanoutAny fails the run only if every certificate-store update fails.
	FanoutAny = "any"
	// FanoutNone logs per-URI failures and always reports success.
	FanoutNone = "none"
)

// Settings represents the tool-level configuration, as opposed to the
// per-lineage deploy.json sidecar handled by the deployconf package.
type Settings struct {
	// LogFile is the shared deploy log. Empty means the platform default.
	LogFile string `yaml:"log_file,omitempty"`
	// FanoutPolicy governs how partial failure across certificate-store
	// URIs is reported: all, any, or none.
	FanoutPolicy string `yaml:"fanout_policy"`
	// HTTPTimeoutSeconds bounds downstream API calls. Zero keeps the
	// transport default (no explicit timeout).
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds,omitempty"`
}

// configDir is the default config directory
const configDir = ".config/certdeploy"
const configFile = "config.yaml"

// New creates Settings with default values
func New() *Settings {
	return &Settings{
		FanoutPolicy: FanoutAny,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the settings from disk
func Load() (*Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the settings from an explicit path.
// A missing file yields defaults, not an error.
func LoadFrom(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	s := New()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if s.FanoutPolicy == "" {
		s.FanoutPolicy = FanoutAny
	}
	if !validPolicy(s.FanoutPolicy) {
		return nil, fmt.Errorf("invalid fanout_policy %q (valid: all, any, none)", s.FanoutPolicy)
	}

	return s, nil
}

// Save writes the settings to disk
func (s *Settings) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// HTTPTimeout returns the configured API timeout as a duration.
// Zero means no explicit timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

func validPolicy(p string) bool {
	switch p {
	case FanoutAll, FanoutAny, FanoutNone:
		return true
	}
	return false
}
