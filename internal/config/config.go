// Package config loads cmaster settings from an optional YAML file and
// CMASTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/cmaster/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. CMASTER_LLM_PROVIDER.
const EnvPrefix = "CMASTER"

// Profile backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	LLM        llm.Config       `mapstructure:"llm"`
	DB         DBConfig         `mapstructure:"db"`
	Profile    ProfileConfig    `mapstructure:"profile"`
	Generation GenerationConfig `mapstructure:"generation"`
	Grading    GradingConfig    `mapstructure:"grading"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

type DBConfig struct {
	// Path of the sqlite file. Empty means the XDG data directory.
	Path string `mapstructure:"path"`
}

type ProfileConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
	Mongo   MongoConfig `mapstructure:"mongo"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type GenerationConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type GradingConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	Concurrency   int           `mapstructure:"concurrency"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// New returns a viper instance carrying every default and wired to the
// CMASTER_ environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// AutomaticEnv only resolves keys viper already knows, so every key gets
// a default here.
func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.timeout", l.Timeout)

	v.SetDefault("db.path", "")

	v.SetDefault("profile.backend", BackendSQLite)
	v.SetDefault("profile.redis.addr", "localhost:6379")
	v.SetDefault("profile.redis.password", "")
	v.SetDefault("profile.redis.db", 0)
	v.SetDefault("profile.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("profile.mongo.database", "cmaster")
	v.SetDefault("profile.mongo.collection", "profiles")

	v.SetDefault("generation.timeout", 90*time.Second)
	v.SetDefault("generation.max_attempts", 3)

	v.SetDefault("grading.timeout", 45*time.Second)
	v.SetDefault("grading.concurrency", 4)
	v.SetDefault("grading.rate_per_second", 2.0)
	v.SetDefault("grading.burst", 4)

	v.SetDefault("server.addr", "127.0.0.1:8740")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)
}

// Load reads path, or the default config file when path is empty, and
// decodes the merged settings. A missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that do not depend on the LLM provider.
func (c *Config) Validate() error {
	switch c.Profile.Backend {
	case BackendSQLite, BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("unknown profile backend %q", c.Profile.Backend)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("generation.max_attempts must be at least 1, got %d", c.Generation.MaxAttempts)
	}
	if c.Grading.Concurrency < 1 {
		return fmt.Errorf("grading.concurrency must be at least 1, got %d", c.Grading.Concurrency)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/cmaster/config.yaml, falling back
// to ~/.config/cmaster/config.yaml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cmaster", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "cmaster", "config.yaml"), nil
}
