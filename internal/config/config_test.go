package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/internal/hashing"
	"github.com/eigerco/primitives/pkg/log"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	v, err := NewViper(newFlags(t))
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primitives.yaml")
	content := "log-level: debug\nhasher: keccak\nvalidate-workers: 2\ncache-size: 128\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PRIMITIVES_VALIDATE_WORKERS", "6")
	t.Setenv("PRIMITIVES_DATA_DIR", "/from/env")

	v, err := NewViper(newFlags(t, "--config", path, "--data-dir", "/from/flag"))
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	// File only.
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, hashing.KeccakName, cfg.Hasher)
	assert.Equal(t, int64(128), cfg.CacheSize)
	// Env beats file.
	assert.Equal(t, 6, cfg.ValidateWorkers)
	// Flag beats env.
	assert.Equal(t, "/from/flag", cfg.DataDir)
	// Untouched.
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadMissingFile(t *testing.T) {
	v, err := NewViper(newFlags(t, "--config", filepath.Join(t.TempDir(), "absent.toml")))
	require.NoError(t, err)

	_, err = Load(v)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"hasher", func(c *Config) { c.Hasher = "md5" }},
		{"workers", func(c *Config) { c.ValidateWorkers = 0 }},
		{"cache", func(c *Config) { c.CacheSize = -1 }},
		{"window", func(c *Config) { c.BlockHashCount = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	require.NoError(t, Default().Validate())
}

func TestLogOptions(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	opts, err := cfg.LogOptions()
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, opts.LogLevel)
	assert.Equal(t, log.JSONLogger, opts.Type)

	h, err := cfg.HasherImpl()
	require.NoError(t, err)
	assert.Equal(t, hashing.Blake2{}, h)
}
