package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override config keys,
// e.g. LOADPLAN_LOG_LEVEL or LOADPLAN_SETTINGS_STACK.
const EnvPrefix = "LOADPLAN"

// DefaultConfigDir returns the default directory for LoadPlan configuration.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".loadplan")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig saves the application configuration to a JSON file.
func SaveAppConfig(path string, cfg model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig loads the application configuration from a JSON file and
// applies LOADPLAN_* environment overrides. A missing file yields the
// defaults, still subject to the environment.
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := newViper()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return model.AppConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return model.AppConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg model.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.RecentFiles == nil {
		cfg.RecentFiles = []string{}
	}
	return cfg, nil
}

// LoadDefaultAppConfig loads the config from DefaultConfigPath.
func LoadDefaultAppConfig() (model.AppConfig, error) {
	return LoadAppConfig(DefaultConfigPath())
}

// newViper returns a viper instance seeded with every AppConfig key so
// that environment overrides apply even when the file omits a key.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := model.DefaultAppConfig()
	v.SetDefault("default_preset", d.DefaultPreset)
	v.SetDefault("custom_container.name", d.CustomContainer.Name)
	v.SetDefault("custom_container.length", d.CustomContainer.Length)
	v.SetDefault("custom_container.width", d.CustomContainer.Width)
	v.SetDefault("custom_container.height", d.CustomContainer.Height)
	v.SetDefault("custom_container.max_weight", d.CustomContainer.MaxWeight)
	v.SetDefault("settings.rotate", d.Settings.Rotate)
	v.SetDefault("settings.stack", d.Settings.Stack)
	v.SetDefault("settings.mix_items", d.Settings.MixItems)
	v.SetDefault("settings.consolidate", d.Settings.Consolidate)
	v.SetDefault("settings.fill_rows", d.Settings.FillRows)
	v.SetDefault("settings.spacing", d.Settings.Spacing)
	v.SetDefault("settings.stack_policy", string(d.Settings.StackPolicy))
	v.SetDefault("settings.safety_factor", d.Settings.SafetyFactor)
	v.SetDefault("settings.max_units", d.Settings.MaxUnits)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("recent_files", d.RecentFiles)
	v.SetDefault("theme", d.Theme)
	return v
}
