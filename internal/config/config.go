package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/llm"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. FJALA_LOG_LEVEL.
const EnvPrefix = "FJALA"

// Config holds all configuration for fjala
type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Practice PracticeConfig `mapstructure:"practice"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      llm.Config     `mapstructure:"llm"`
}

// DBConfig selects the store. An empty sqlite DSN means the default
// database file under the data directory.
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PracticeConfig holds the session rules.
type PracticeConfig struct {
	QuestionCount int          `mapstructure:"question_count"`
	Dialect       string       `mapstructure:"dialect"`
	TipEvery      int          `mapstructure:"tip_every"`
	DueOnly       bool         `mapstructure:"due_only"`
	LLMTips       bool         `mapstructure:"llm_tips"`
	Hearts        HeartsConfig `mapstructure:"hearts"`
	Match         MatchConfig  `mapstructure:"match"`
}

type HeartsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Max     int  `mapstructure:"max"`
}

type MatchConfig struct {
	EitherOrder bool `mapstructure:"either_order"`
	MissLimit   int  `mapstructure:"miss_limit"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// RequestsPerSecond limits each client IP; 0 disables it.
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
}

// Load reads configuration from an optional fjala.yaml and FJALA_*
// environment variables. An explicit path must exist; the default search
// locations may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fjala")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults only hold plain values, so decoding cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", store.DriverSQLite)
	v.SetDefault("db.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("practice.question_count", session.DefaultQuestionCount)
	v.SetDefault("practice.dialect", string(content.DefaultDialect))
	v.SetDefault("practice.tip_every", session.DefaultTipEvery)
	v.SetDefault("practice.due_only", false)
	v.SetDefault("practice.llm_tips", false)
	v.SetDefault("practice.hearts.enabled", false)
	v.SetDefault("practice.hearts.max", session.DefaultMaxHearts)
	v.SetDefault("practice.match.either_order", true)
	v.SetDefault("practice.match.miss_limit", 0)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_second", 20)
	v.SetDefault("server.session_ttl", 2*time.Hour)

	// Every llm key needs a default so AutomaticEnv can override it.
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.model", d.Model)
	v.SetDefault("llm.api_key", d.APIKey)
	v.SetDefault("llm.base_url", d.BaseURL)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.rate_per_minute", d.RatePerMinute)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case store.DriverSQLite:
	case store.DriverPostgres:
		if c.DB.DSN == "" {
			errs = append(errs, fmt.Errorf("db.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db.driver %q", c.DB.Driver))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	if _, ok := content.ParseDialect(c.Practice.Dialect); !ok {
		errs = append(errs, fmt.Errorf("unknown practice.dialect %q", c.Practice.Dialect))
	}
	if c.Practice.QuestionCount <= 0 {
		errs = append(errs, fmt.Errorf("practice.question_count must be positive"))
	}
	if c.Practice.TipEvery <= 0 {
		errs = append(errs, fmt.Errorf("practice.tip_every must be positive"))
	}
	if c.Practice.Hearts.Max <= 0 {
		errs = append(errs, fmt.Errorf("practice.hearts.max must be positive"))
	}
	if c.Practice.Match.MissLimit < 0 {
		errs = append(errs, fmt.Errorf("practice.match.miss_limit must not be negative"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("server.requests_per_second must not be negative"))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Dialect returns the configured dialect.
func (c *Config) Dialect() content.Dialect {
	d, ok := content.ParseDialect(c.Practice.Dialect)
	if !ok {
		return content.DefaultDialect
	}
	return d
}

// Rules maps the practice section onto session rules.
func (c *Config) Rules() session.Rules {
	return session.Rules{
		QuestionCount: c.Practice.QuestionCount,
		TipEvery:      c.Practice.TipEvery,
		HeartsEnabled: c.Practice.Hearts.Enabled,
		MaxHearts:     c.Practice.Hearts.Max,
		DueOnly:       c.Practice.DueOnly,
		Match: questions.MatchRules{
			EitherOrder: c.Practice.Match.EitherOrder,
			MissLimit:   c.Practice.Match.MissLimit,
		},
	}
}

// StoreConfig returns the store settings, resolving an empty sqlite DSN to
// the default database path.
func (c *Config) StoreConfig() (store.Config, error) {
	sc := store.Config{Driver: c.DB.Driver, DSN: c.DB.DSN}
	if sc.DSN == "" && sc.Driver == store.DriverSQLite {
		p, err := store.DefaultDBPath()
		if err != nil {
			return store.Config{}, err
		}
		sc.DSN = p
	}
	return sc, nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fjala"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fjala"), nil
}
