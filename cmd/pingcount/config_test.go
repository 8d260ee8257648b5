package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func loadArgs(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(args))
	return LoadConfig(viper.New(), cmd.Flags())
}

func TestLoadConfig_defaults(t *testing.T) {
	cfg, err := loadArgs(t)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_flags(t *testing.T) {
	cfg, err := loadArgs(t, "--producers", "7", "--metrics-addr", ":2121", "--log-level", "debug")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Producers)
	require.Equal(t, ":2121", cfg.MetricsAddr)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_env(t *testing.T) {
	t.Setenv("MAILBOX_EVENTS", "9")
	t.Setenv("MAILBOX_NATS_URL", "nats://example:4222")

	cfg, err := loadArgs(t)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Events)
	require.Equal(t, "nats://example:4222", cfg.NatsURL)
}

func TestLoadConfig_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingcount.yaml")
	require.NoError(t, os.WriteFile(path, []byte("producers: 3\nsubject: counter.test\n"), 0o600))

	cfg, err := loadArgs(t, "--config", path, "--events", "4")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Producers)
	require.Equal(t, 4, cfg.Events)
	require.Equal(t, "counter.test", cfg.Subject)
}

func TestLoadConfig_invalid(t *testing.T) {
	_, err := loadArgs(t, "--log-level", "loud")
	require.ErrorContains(t, err, "invalid log level")
}
