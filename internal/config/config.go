// Package config loads lantern configuration through viper: defaults first,
// then an optional config file, then LANTERN_* environment variables, then
// whatever flags the CLI binds on top.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all lantern configuration.
type Config struct {
	Digest    DigestConfig
	Server    ServerConfig
	Dashboard DashboardConfig
	Log       LogConfig
}

// DigestConfig holds the rendering policy.
type DigestConfig struct {
	BufferLimit   int  `mapstructure:"buffer_limit"`
	Radius        int  `mapstructure:"radius"`
	MaxHighlights int  `mapstructure:"max_highlights"`
	Strict        bool `mapstructure:"strict"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Root string `mapstructure:"root"` // directory local log paths resolve under
}

// DashboardConfig points at the binary dashboard config blob.
type DashboardConfig struct {
	ConfigBlob string `mapstructure:"config_blob"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SetDefaults registers every known key with its default on v. Keys must be
// registered before Load so environment variables bind.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("digest.buffer_limit", 4<<20)
	v.SetDefault("digest.radius", 6)
	v.SetDefault("digest.max_highlights", 2000)
	v.SetDefault("digest.strict", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.root", ".")
	v.SetDefault("dashboard.config_blob", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Bind wires the LANTERN_ environment prefix and an optional config file into
// v. A missing config file is fine; an unreadable or malformed one is not.
func Bind(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix("LANTERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("lantern")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// Load unmarshals the bound settings into a Config.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
