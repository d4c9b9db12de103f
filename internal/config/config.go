// Package config loads node settings from a config file, PRIMITIVES_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eigerco/primitives/internal/constants"
	"github.com/eigerco/primitives/internal/hashing"
	"github.com/eigerco/primitives/pkg/log"
)

const EnvPrefix = "PRIMITIVES"

// Keys shared by flags, env variables and config files.
const (
	KeyConfig          = "config"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyDataDir         = "data-dir"
	KeyHasher          = "hasher"
	KeyValidateWorkers = "validate-workers"
	KeyCacheSize       = "cache-size"
	KeyBlockHashCount  = "block-hash-count"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel        string `mapstructure:"log-level"`
	LogFormat       string `mapstructure:"log-format"`
	DataDir         string `mapstructure:"data-dir"`
	Hasher          string `mapstructure:"hasher"`
	ValidateWorkers int    `mapstructure:"validate-workers"`
	CacheSize       int64  `mapstructure:"cache-size"`
	BlockHashCount  uint64 `mapstructure:"block-hash-count"`
}

func Default() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "console",
		Hasher:          hashing.Blake2Name,
		ValidateWorkers: constants.DefaultValidateWorkers,
		CacheSize:       constants.DefaultHashCacheSize,
		BlockHashCount:  constants.BlockHashCount,
	}
}

// RegisterFlags adds the persistent flags every command understands.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String(KeyConfig, "", "Path to a config file (json, toml or yaml).")
	flags.String(KeyLogLevel, def.LogLevel, "Log level: trace, debug, info, warn, error.")
	flags.String(KeyLogFormat, def.LogFormat, "Log format: console or json.")
	flags.String(KeyDataDir, def.DataDir, "Directory of the chain database. Empty keeps it in memory.")
	flags.String(KeyHasher, def.Hasher, "Header and trie hasher: blake2 or keccak.")
	flags.Int(KeyValidateWorkers, def.ValidateWorkers, "Number of parallel transaction validators.")
	flags.Int64(KeyCacheSize, def.CacheSize, "Entries in the block number to hash cache.")
	flags.Uint64(KeyBlockHashCount, def.BlockHashCount, "Number of recent block hashes kept for mortality checks.")
}

// NewViper returns a viper instance reading the PRIMITIVES_ environment,
// with defaults set and flags bound when given.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyDataDir, def.DataDir)
	v.SetDefault(KeyHasher, def.Hasher)
	v.SetDefault(KeyValidateWorkers, def.ValidateWorkers)
	v.SetDefault(KeyCacheSize, def.CacheSize)
	v.SetDefault(KeyBlockHashCount, def.BlockHashCount)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Load reads the config file named by the "config" key, if any, and
// returns the validated result.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if _, err := log.ParseLoggerType(c.LogFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := hashing.ByName(c.Hasher); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ValidateWorkers < 1 {
		return fmt.Errorf("%w: validate-workers must be positive, got %d", ErrInvalidConfig, c.ValidateWorkers)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("%w: cache-size must be positive, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if c.BlockHashCount == 0 {
		return fmt.Errorf("%w: block-hash-count must be positive", ErrInvalidConfig)
	}
	return nil
}

// LogOptions converts the log settings for log.Init.
func (c Config) LogOptions() (log.Options, error) {
	level, err := log.ParseLogLevel(c.LogLevel)
	if err != nil {
		return log.Options{}, err
	}
	typ, err := log.ParseLoggerType(c.LogFormat)
	if err != nil {
		return log.Options{}, err
	}
	return log.Options{LogLevel: level, Type: typ}, nil
}

func (c Config) HasherImpl() (hashing.Hasher, error) {
	return hashing.ByName(c.Hasher)
}
