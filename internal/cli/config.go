package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/beaconnet/pkg/cache"
	"github.com/matzehuels/beaconnet/pkg/errors"
)

// Config is the on-disk CLI configuration.
//
//	[log]
//	level = "debug"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
type Config struct {
	Log   LogConfig   `toml:"log"`
	Cache CacheConfig `toml:"cache"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig selects and configures the render cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	TTL     string `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

var validBackends = map[string]bool{
	cache.BackendNone:  true,
	cache.BackendFile:  true,
	cache.BackendRedis: true,
	cache.BackendMongo: true,
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			Backend:         cache.BackendFile,
			TTL:             cache.TTLRender.String(),
			RedisAddr:       "localhost:6379",
			RedisPrefix:     appName + ":",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "renders",
		},
	}
}

// LoadConfig reads the config file at path over the defaults. An empty path
// means the default location, which may be missing; an explicit path must
// exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that the decoder cannot.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level")
	}
	if !validBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if _, err := c.Cache.ttl(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache ttl")
	}
	return nil
}

func (c CacheConfig) ttl() (time.Duration, error) {
	if c.TTL == "" {
		return cache.TTLRender, nil
	}
	return time.ParseDuration(c.TTL)
}

func (c CacheConfig) options() cache.Options {
	return cache.Options{
		Backend: c.Backend,
		Dir:     c.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		},
		Mongo: cache.MongoOptions{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		},
	}
}
