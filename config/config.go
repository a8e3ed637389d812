package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Script is the cue script played by default
	Script string `mapstructure:"script"`

	// LockFile guards the audio device against a second instance
	LockFile string `mapstructure:"lock_file"`

	// Audio output configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Terminal UI configuration
	UI UIConfig `mapstructure:"ui"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// AudioConfig holds output device configuration
type AudioConfig struct {
	SampleRate int           `mapstructure:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer"`
}

// UIConfig holds terminal UI configuration
type UIConfig struct {
	Tick     time.Duration `mapstructure:"tick"`
	LogLines int           `mapstructure:"log_lines"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
	File   string `mapstructure:"file"`
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("script", "script.yaml")
	viper.SetDefault("lock_file", filepath.Join(os.TempDir(), "cuebox.lock"))
	viper.SetDefault("audio.sample_rate", 44100)
	viper.SetDefault("audio.buffer", "100ms")
	viper.SetDefault("ui.tick", "100ms")
	viper.SetDefault("ui.log_lines", 200)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.file", "")
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	SetDefaults()

	// Read config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.cuebox")
	viper.AddConfigPath("/etc/cuebox")

	// Allow environment variables
	viper.SetEnvPrefix("CUEBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Debug("Using config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Script == "" {
		return &ConfigError{Field: "script", Message: "script path is required"}
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return &ConfigError{Field: "audio.sample_rate", Message: "sample rate must be between 8000 and 192000"}
	}
	if c.Audio.Buffer <= 0 {
		return &ConfigError{Field: "audio.buffer", Message: "buffer must be positive"}
	}
	if c.UI.Tick <= 0 {
		return &ConfigError{Field: "ui.tick", Message: "tick must be positive"}
	}
	if c.UI.LogLines <= 0 {
		return &ConfigError{Field: "ui.log_lines", Message: "log lines must be positive"}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be text or json"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
