package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	pak "github.com/exectails/huskypak"
)

// config holds the settings shared by all commands.
type config struct {
	OutputDir        string `mapstructure:"output_dir"`
	CompressionLevel int    `mapstructure:"compression_level"`
	PathSeparator    string `mapstructure:"path_separator"`
	LogLevel         string `mapstructure:"log_level"`
	MaxFileSize      uint64 `mapstructure:"max_file_size"`
}

// loadConfig reads huskypak.yaml (or file, if set) and HUSKYPAK_* environment
// variables into a config. A missing default config file is not an error.
func loadConfig(v *viper.Viper, file string) (config, error) {
	v.SetDefault("output_dir", "./output")
	v.SetDefault("compression_level", pak.DefaultCompressionLevel)
	v.SetDefault("path_separator", "/")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_file_size", pak.DefaultMaxFileSize)

	v.SetEnvPrefix("HUSKYPAK")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("huskypak")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.huskypak")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.PathSeparator != "/" && c.PathSeparator != `\` {
		return fmt.Errorf("config: path_separator must be '/' or '\\', got %q", c.PathSeparator)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// separator returns the entry name separator as a rune.
func (c config) separator() rune {
	return rune(c.PathSeparator[0])
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}
