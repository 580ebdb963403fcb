// Package config loads the bot configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/internal/runtime"
	"github.com/aretw0/excursion/pkg/adapters/fs"
	"github.com/aretw0/excursion/pkg/dispatch"
	"github.com/aretw0/excursion/pkg/persistence/middleware"
	"github.com/aretw0/excursion/pkg/route"
	"github.com/aretw0/excursion/pkg/session"
)

// Journal backends.
const (
	JournalNone  = "none"
	JournalFile  = "file"
	JournalRedis = "redis"
)

// Config is the complete bot configuration.
type Config struct {
	Token   string `yaml:"token"`
	DataDir string `yaml:"data"`
	Variant string `yaml:"variant"`
	// Routes is the route document, required by the graph variant.
	Routes  string `yaml:"routes"`
	MapFile string `yaml:"map"`
	Silent  bool   `yaml:"silent"`

	Workers           int           `yaml:"workers"`
	DeleteConcurrency int           `yaml:"delete_concurrency"`
	LockTTL           time.Duration `yaml:"lock_ttl"`
	MaxInputSize      int           `yaml:"max_input_size"`

	Patterns fs.Patterns       `yaml:"patterns"`
	Log      LogConfig         `yaml:"log"`
	HTTP     HTTPConfig        `yaml:"http"`
	Redis    RedisConfig       `yaml:"redis"`
	Journal  JournalConfig     `yaml:"journal"`
	Messages dispatch.Messages `yaml:"messages"`
	Labels   runtime.Labels    `yaml:"labels"`
}

// LogConfig selects level and encoding of the logs.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig configures the operations API. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig enables distributed locking and the Redis journal. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// JournalConfig selects where user actions are recorded.
type JournalConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	MaxLen  int    `yaml:"max_len"`
	// Redact lists regular expressions masked out of recorded details.
	Redact []string `yaml:"redact"`
	// Key is a base64 AES-256 key; when set, details are encrypted at rest.
	Key          string   `yaml:"key"`
	FallbackKeys []string `yaml:"fallback_keys"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:           "data",
		Variant:           string(route.VariantLinear),
		MapFile:           "map.jpg",
		Silent:            true,
		Workers:           16,
		DeleteConcurrency: runtime.DefaultDeleteConcurrency,
		LockTTL:           session.DefaultLockTTL,
		MaxInputSize:      dispatch.DefaultMaxInputSize,
		Patterns:          fs.DefaultPatterns(),
		Log:               LogConfig{Level: "info", Format: string(logging.FormatText)},
		Redis:             RedisConfig{Prefix: "excursion:"},
		Journal: JournalConfig{
			Backend: JournalFile,
			Path:    "users",
			Redact:  slices.Clone(middleware.DefaultPIIPatterns),
		},
		Messages:          dispatch.DefaultMessages(),
		Labels:            runtime.DefaultLabels(),
	}
}

// Load reads path (when not empty) over the defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"BOT_TOKEN":                &c.Token,
		"EXCURSION_DATA":           &c.DataDir,
		"EXCURSION_VARIANT":        &c.Variant,
		"EXCURSION_ROUTES":         &c.Routes,
		"EXCURSION_MAP":            &c.MapFile,
		"EXCURSION_LOG_LEVEL":      &c.Log.Level,
		"EXCURSION_LOG_FORMAT":     &c.Log.Format,
		"EXCURSION_HTTP_ADDR":      &c.HTTP.Addr,
		"EXCURSION_REDIS_ADDR":     &c.Redis.Addr,
		"EXCURSION_REDIS_PASSWORD": &c.Redis.Password,
		"EXCURSION_JOURNAL":        &c.Journal.Backend,
		"EXCURSION_JOURNAL_PATH":   &c.Journal.Path,
		"EXCURSION_JOURNAL_KEY":    &c.Journal.Key,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("EXCURSION_SILENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EXCURSION_SILENT: %w", err)
		}
		c.Silent = b
	}
	return nil
}

// Validate checks the configuration without touching the network.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	variant, err := route.ParseVariant(c.Variant)
	if err != nil {
		errs = append(errs, err)
	}
	if variant == route.VariantGraph && c.Routes == "" {
		errs = append(errs, errors.New("graph variant requires a routes document"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON, "":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	switch c.Journal.Backend {
	case JournalNone, JournalFile, "":
	case JournalRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis journal requires redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal backend %q", c.Journal.Backend))
	}
	if c.Workers < 0 || c.DeleteConcurrency < 0 || c.MaxInputSize < 0 {
		errs = append(errs, errors.New("workers, delete_concurrency and max_input_size must not be negative"))
	}
	return errors.Join(errs...)
}

// RequireToken reports a missing bot token, needed only to serve.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return errors.New("bot token is missing: set BOT_TOKEN or token in the config file")
	}
	return nil
}
