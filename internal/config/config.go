package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yiblet/clipkeep/internal/store"
)

const (
	MinHistoryCount     = 10
	MaxHistoryCount     = 1000
	DefaultHistoryCount = 100

	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config represents the clipkeep configuration
type Config struct {
	MaxHistoryCount  int              `yaml:"max_history_count"`
	EnabledTypes     []store.ItemType `yaml:"enabled_types"`
	ExcludePasswords bool             `yaml:"exclude_passwords"`
	AutoCleanup      bool             `yaml:"auto_cleanup"`
	CleanupAfter     time.Duration    `yaml:"cleanup_after"`
	PollInterval     time.Duration    `yaml:"poll_interval"`
	Storage          string           `yaml:"storage"`
	HistoryLocation  string           `yaml:"history_location,omitempty"`
	LogFormat        string           `yaml:"log_format"`
	LogLevel         string           `yaml:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxHistoryCount:  DefaultHistoryCount,
		EnabledTypes:     store.AllTypes(),
		ExcludePasswords: true,
		AutoCleanup:      false,
		CleanupAfter:     30 * 24 * time.Hour,
		PollInterval:     500 * time.Millisecond,
		Storage:          StorageJSON,
		LogFormat:        "auto",
		LogLevel:         "info",
	}
}

// EnabledTypeSet returns EnabledTypes as a set.
func (c *Config) EnabledTypeSet() map[store.ItemType]bool {
	set := make(map[store.ItemType]bool, len(c.EnabledTypes))
	for _, t := range c.EnabledTypes {
		set[t] = true
	}
	return set
}

// ConfigManager manages configuration persistence
type ConfigManager struct {
	configPath string
}

// DefaultPath returns ~/.config/clipkeep/config.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "clipkeep", "config.yaml"), nil
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &ConfigManager{configPath: configPath}, nil
}

// NewConfigManagerWithPath creates a config manager with custom config path
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// Load reads the configuration from file, or returns default if file doesn't exist.
// Keys missing from the file keep their default values.
func (cm *ConfigManager) Load() (*Config, error) {
	data, err := os.ReadFile(cm.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cm.validateAndSetDefaults(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes the configuration to file
func (cm *ConfigManager) Save(config *Config) error {
	// Validate configuration before saving
	if err := cm.validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults validates configuration and sets defaults for missing fields
func (cm *ConfigManager) validateAndSetDefaults(config *Config) error {
	if config.MaxHistoryCount < MinHistoryCount || config.MaxHistoryCount > MaxHistoryCount {
		return fmt.Errorf("max_history_count must be between %d and %d", MinHistoryCount, MaxHistoryCount)
	}

	for _, t := range config.EnabledTypes {
		if _, err := store.ParseItemType(string(t)); err != nil {
			return fmt.Errorf("enabled_types: %w", err)
		}
	}

	if config.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if config.AutoCleanup && config.CleanupAfter <= 0 {
		return fmt.Errorf("cleanup_after must be positive when auto_cleanup is enabled")
	}

	switch config.Storage {
	case "":
		config.Storage = StorageJSON
	case StorageJSON, StorageSQLite:
	default:
		return fmt.Errorf("storage must be %q or %q", StorageJSON, StorageSQLite)
	}

	if config.LogFormat == "" {
		config.LogFormat = "auto"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	return nil
}

// GetConfigPath returns the path to the config file
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Update modifies a specific configuration value
func (cm *ConfigManager) Update(key, value string) error {
	config, err := cm.Load()
	if err != nil {
		return err
	}

	switch key {
	case "max-history-count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for max-history-count: %s", value)
		}
		config.MaxHistoryCount = n
	case "enabled-types":
		types, err := parseTypeList(value)
		if err != nil {
			return err
		}
		config.EnabledTypes = types
	case "exclude-passwords":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		config.ExcludePasswords = b
	case "auto-cleanup":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		config.AutoCleanup = b
	case "cleanup-after":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for cleanup-after: %s", value)
		}
		config.CleanupAfter = d
	case "poll-interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for poll-interval: %s", value)
		}
		config.PollInterval = d
	case "storage":
		config.Storage = value
	case "history-location":
		config.HistoryLocation = value
	case "log-format":
		config.LogFormat = value
	case "log-level":
		config.LogLevel = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return cm.Save(config)
}

// Get returns the value for a specific configuration key
func (cm *ConfigManager) Get(key string) (string, error) {
	values, err := cm.List()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return value, nil
}

// List returns all configuration keys and values
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}

	types := make([]string, len(config.EnabledTypes))
	for i, t := range config.EnabledTypes {
		types[i] = string(t)
	}

	result := map[string]string{
		"max-history-count": strconv.Itoa(config.MaxHistoryCount),
		"enabled-types":     strings.Join(types, ","),
		"exclude-passwords": strconv.FormatBool(config.ExcludePasswords),
		"auto-cleanup":      strconv.FormatBool(config.AutoCleanup),
		"cleanup-after":     config.CleanupAfter.String(),
		"poll-interval":     config.PollInterval.String(),
		"storage":           config.Storage,
		"history-location":  config.HistoryLocation,
		"log-format":        config.LogFormat,
		"log-level":         config.LogLevel,
	}

	if result["history-location"] == "" {
		result["history-location"] = "[default]"
	}

	return result, nil
}

func parseBool(key, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value for %s: %s (must be 'true' or 'false')", key, value)
	}
}

// parseTypeList parses a comma-separated type list; "all" enables every type.
func parseTypeList(value string) ([]store.ItemType, error) {
	if strings.TrimSpace(value) == "all" {
		return store.AllTypes(), nil
	}

	var types []store.ItemType
	seen := make(map[store.ItemType]bool)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := store.ParseItemType(part)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types, nil
}
