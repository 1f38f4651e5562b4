// Package config loads stepwise settings from flags, STEPWISE_* environment
// variables, a stepwise.yaml file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. STEPWISE_LOG_LEVEL.
const EnvPrefix = "STEPWISE"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Log struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

type Playback struct {
	Delay time.Duration `mapstructure:"delay" yaml:"delay" validate:"min=1ms,max=10s"`
}

type Cache struct {
	Size int `mapstructure:"size" yaml:"size" validate:"min=0"`
}

type Store struct {
	Backend string `mapstructure:"backend" yaml:"backend" validate:"oneof=memory file redis sqlite"`
	Path    string `mapstructure:"path" yaml:"path"`
}

type Redis struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db" validate:"min=0"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"min=0"`
}

type HTTP struct {
	Addr  string  `mapstructure:"addr" yaml:"addr" validate:"required"`
	Rate  float64 `mapstructure:"rate" yaml:"rate" validate:"min=0"`
	Burst int     `mapstructure:"burst" yaml:"burst" validate:"min=0"`
}

type Topics struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type Input struct {
	MaxSize int `mapstructure:"max_size" yaml:"max_size" validate:"min=1,max=32"`
}

// Config is the full set of settings.
type Config struct {
	Log      Log      `mapstructure:"log" yaml:"log"`
	Playback Playback `mapstructure:"playback" yaml:"playback"`
	Cache    Cache    `mapstructure:"cache" yaml:"cache"`
	Store    Store    `mapstructure:"store" yaml:"store"`
	Redis    Redis    `mapstructure:"redis" yaml:"redis"`
	HTTP     HTTP     `mapstructure:"http" yaml:"http"`
	Topics   Topics   `mapstructure:"topics" yaml:"topics"`
	Input    Input    `mapstructure:"input" yaml:"input"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:      Log{Level: "info", Format: "text"},
		Playback: Playback{Delay: 400 * time.Millisecond},
		Cache:    Cache{Size: 128},
		Store:    Store{Backend: BackendFile, Path: filepath.Join(".stepwise", "sessions")},
		Redis:    Redis{Addr: "localhost:6379"},
		HTTP:     HTTP{Addr: ":8080", Rate: 20, Burst: 40},
		Input:    Input{MaxSize: 32},
	}
}

// NewViper returns a viper instance with defaults, env binding and the
// standard search paths configured.
func NewViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("playback.delay", d.Playback.Delay)
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.rate", d.HTTP.Rate)
	v.SetDefault("http.burst", d.HTTP.Burst)
	v.SetDefault("topics.dir", d.Topics.Dir)
	v.SetDefault("input.max_size", d.Input.MaxSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("stepwise")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/stepwise")

	return v
}

var validate = validator.New()

// Load reads the config file (file, or the search paths when empty) and
// unmarshals everything v knows into a validated Config. A missing file is
// only an error when it was named explicitly.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Store.Backend == BackendRedis && cfg.Redis.Addr == "" {
		return Config{}, fmt.Errorf("invalid config: redis.addr is required for the redis backend")
	}
	return cfg, nil
}

// YAML renders cfg in the config file format.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
