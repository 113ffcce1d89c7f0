package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the product page size when the config does not set one.
const DefaultPageSize = 10

// Config holds CLI configuration stored at ~/.picker/config.
type Config struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key,omitempty"`
	AccountID string `yaml:"account_id"`
	Username  string `yaml:"username,omitempty"`
	PageSize  int    `yaml:"page_size,omitempty"`
	VimKeys   bool   `yaml:"vim_keys"`
}

// Dir returns the picker state directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".picker")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// LogPath returns the log file path.
func LogPath() string {
	return filepath.Join(Dir(), "picker.log")
}

// Load reads and parses the config file. Returns error if missing, insecure or incomplete.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Validate reports the first required field that is missing.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("config missing api_url")
	}
	if strings.TrimSpace(c.AccountID) == "" {
		return errors.New("config missing account_id")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("config page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}
