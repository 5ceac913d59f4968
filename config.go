package main

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds nanodis's runtime configuration, adapted from the
// teacher's Config (config.go) and narrowed/extended to the fields
// spec.md §6 names as the CLI surface.
type Config struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	MaxClients int      `mapstructure:"max_clients"`
	Threaded   bool     `mapstructure:"threaded"`
	LogFile    string   `mapstructure:"log_file"`
	Debug      bool     `mapstructure:"debug"`
	ErrorsOnly bool     `mapstructure:"errors"`
	Extensions []string `mapstructure:"extensions"`
}

// DefaultConfig returns a Config with the defaults spec.md §6 calls
// out explicitly (host/port/max-clients).
func DefaultConfig() *Config {
	return &Config{
		Host:       "127.0.0.1",
		Port:       33737,
		MaxClients: 1024,
		Threaded:   false,
		LogFile:    "",
		Debug:      false,
		ErrorsOnly: false,
		Extensions: nil,
	}
}

// LoadConfig loads configuration from environment variables, an
// optional config file, and command line flags, using viper's own
// layering (flags over environment over config file over defaults),
// mirroring the teacher's LoadConfig.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	viper.SetConfigName("nanodis")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/nanodis/")
	viper.AddConfigPath("$HOME/.nanodis")

	viper.SetEnvPrefix("NANODIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("host", config.Host)
	viper.SetDefault("port", config.Port)
	viper.SetDefault("max_clients", config.MaxClients)
	viper.SetDefault("threaded", config.Threaded)
	viper.SetDefault("log_file", config.LogFile)
	viper.SetDefault("debug", config.Debug)
	viper.SetDefault("errors", config.ErrorsOnly)
	viper.SetDefault("extensions", config.Extensions)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config, nil
}

// WatchReload re-reads the configuration into config whenever the
// on-disk config file changes and passes it to onChange, backed by
// viper's fsnotify-driven WatchConfig (AMBIENT STACK, Configuration).
// It does not load or unload extensions itself.
func WatchReload(config *Config, onChange func(*Config)) {
	viper.OnConfigChange(func(_ fsnotify.Event) {
		reloaded := *config
		if err := viper.Unmarshal(&reloaded); err != nil {
			logWarnf("config reload failed: %v", err)
			return
		}
		*config = reloaded
		onChange(config)
	})
	viper.WatchConfig()
}

// Validate validates the configuration, adapted from the teacher's
// Validate (config.go).
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.MaxClients < 1 {
		return fmt.Errorf("max_clients must be at least 1")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("nanodis config: %s:%d, max_clients=%d, threaded=%v",
		c.Host, c.Port, c.MaxClients, c.Threaded)
}
