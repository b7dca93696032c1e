package model

// AppConfig holds application-wide preferences and default planning settings.
type AppConfig struct {
	// Defaults applied to new planning sessions
	DefaultPreset   string       `json:"default_preset" mapstructure:"default_preset"` // Container preset key or "custom"
	CustomContainer Container    `json:"custom_container" mapstructure:"custom_container"`
	Settings        PlanSettings `json:"settings" mapstructure:"settings"`

	// Logging
	LogLevel  string `json:"log_level" mapstructure:"log_level"` // "debug", "info", "warn", "error"
	LogFormat string `json:"log_format" mapstructure:"log_format"`
	LogFile   string `json:"log_file" mapstructure:"log_file"` // Empty logs to stderr

	// HTTP service
	ServerAddr string `json:"server_addr" mapstructure:"server_addr"`

	// Application preferences
	RecentFiles []string `json:"recent_files" mapstructure:"recent_files"`
	Theme       string   `json:"theme" mapstructure:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPreset:   PresetStandardTrailer,
		CustomContainer: Container{Name: "Custom", Length: 1360, Width: 245, Height: 270},
		Settings:        DefaultPlanSettings(),
		LogLevel:        "info",
		LogFormat:       "text",
		LogFile:         "",
		ServerAddr:      ":8080",
		RecentFiles:     []string{},
		Theme:           "system",
	}
}

// Container resolves the configured default container.
func (c AppConfig) Container() Container {
	return ResolveContainer(c.DefaultPreset, c.CustomContainer)
}

// AddRecentFile moves path to the front of the recent files list.
func (c *AppConfig) AddRecentFile(path string) {
	const maxRecent = 10
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > maxRecent {
		files = files[:maxRecent]
	}
	c.RecentFiles = files
}
