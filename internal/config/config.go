package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is read from the working directory when
// GROQASK_SETTINGS is not set.
const DefaultSettingsFile = "groqask.yaml"

// Settings holds the runtime settings of groqask. The credential and model
// live in the separate user config file at ConfigPath.
type Settings struct {
	// Path of the JSON file holding api_key and model
	ConfigPath string `yaml:"config_path"`

	// Chat-completion endpoint
	Endpoint string `yaml:"endpoint"`

	// HTTP client timeout for the single exchange
	Timeout string `yaml:"timeout"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // optional, in addition to stderr

	// Reply rendering: plain or markdown
	Render string `yaml:"render"`
}

// Render modes.
const (
	RenderPlain    = "plain"
	RenderMarkdown = "markdown"
)

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultSettings returns the default settings.
func DefaultSettings() *Settings {
	return &Settings{
		ConfigPath: "config.json",
		Endpoint:   "https://api.groq.com/openai/v1/chat/completions",
		Timeout:    "60s",
		LogLevel:   "warn",
		Render:     RenderPlain,
	}
}

// Load reads settings from a YAML file on top of the defaults, then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
			}
		}
	}

	s.applyEnvOverrides()
	return s, nil
}

// LoadFromEnvironment loads .env from dir (if present), resolves the settings
// file from GROQASK_SETTINGS or dir/groqask.yaml, loads and validates it.
func LoadFromEnvironment(dir string) (*Settings, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := os.Getenv("GROQASK_SETTINGS")
	if path == "" {
		path = filepath.Join(dir, DefaultSettingsFile)
	}

	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// applyEnvOverrides applies environment variable overrides.
func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv("GROQASK_CONFIG"); v != "" {
		s.ConfigPath = v
	}
	if v := os.Getenv("GROQASK_ENDPOINT"); v != "" {
		s.Endpoint = v
	}
	if v := os.Getenv("GROQASK_TIMEOUT"); v != "" {
		s.Timeout = v
	}
	if v := os.Getenv("GROQASK_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("GROQASK_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	if v := os.Getenv("GROQASK_RENDER"); v != "" {
		s.Render = v
	}
}

// GetTimeout returns the HTTP timeout as a duration.
func (s *Settings) GetTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.ConfigPath) == "" {
		return fmt.Errorf("config_path must not be empty")
	}

	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", s.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an absolute http(s) URL", s.Endpoint)
	}

	if d, err := time.ParseDuration(s.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q: must be a positive duration such as 30s", s.Timeout)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if s.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s (valid: %v)", s.LogLevel, ValidLogLevels)
	}

	if s.Render != RenderPlain && s.Render != RenderMarkdown {
		return fmt.Errorf("invalid render mode: %s (valid: %s, %s)", s.Render, RenderPlain, RenderMarkdown)
	}
	return nil
}
