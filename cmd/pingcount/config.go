package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by all commands.
type Config struct {
	Producers   int    `mapstructure:"producers"`
	Events      int    `mapstructure:"events"`
	LogLevel    string `mapstructure:"log_level"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	NatsURL     string `mapstructure:"nats_url"`
	Subject     string `mapstructure:"subject"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Producers: 100,
		Events:    1,
		LogLevel:  "info",
		Subject:   "mailbox.counter",
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("producers", d.Producers)
	v.SetDefault("events", d.Events)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("nats_url", d.NatsURL)
	v.SetDefault("subject", d.Subject)
}

// LoadConfig resolves the configuration from flags, MAILBOX_* environment
// variables, the optional config file and the defaults, in that order.
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	SetDefaults(v)

	// flags are dashed, config keys use underscores
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return Config{}, bindErr
	}

	v.SetEnvPrefix("MAILBOX")
	v.AutomaticEnv()

	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Producers <= 0 {
		return fmt.Errorf("producers must be positive, got %d", c.Producers)
	}
	if c.Events <= 0 {
		return fmt.Errorf("events must be positive, got %d", c.Events)
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Logger builds the process logger.
func (c Config) Logger() *slog.Logger {
	level, _ := c.Level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
