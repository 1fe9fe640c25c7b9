package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from "90s"-style strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Workers int `yaml:"workers"` // webhook update workers
	Port    int `yaml:"port"`    // webhook + operator API listen port
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string   `yaml:"url"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	DedupTTL Duration `yaml:"dedup_ttl"` // how long inbound update ids are remembered
}

type SchedulerConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
	CycleTimeout Duration `yaml:"cycle_timeout"`
}

type DeliveryConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"` // provider send ceiling
	Burst         int     `yaml:"burst"`
}

type FloodConfig struct {
	Limit  int      `yaml:"limit"` // inbound events per participant per window
	Window Duration `yaml:"window"`
}

type AdminConfig struct {
	APIKey string `yaml:"api_key"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Flood     FloodConfig     `yaml:"flood"`
	Admin     AdminConfig     `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Port <= 0 {
		cfg.Bot.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.DedupTTL <= 0 {
		cfg.Redis.DedupTTL = Duration(time.Hour)
	}
	if cfg.Scheduler.PollInterval <= 0 {
		cfg.Scheduler.PollInterval = Duration(time.Minute)
	}
	if cfg.Scheduler.CycleTimeout <= 0 {
		cfg.Scheduler.CycleTimeout = Duration(5 * time.Minute)
	}
	if cfg.Delivery.RatePerSecond <= 0 {
		cfg.Delivery.RatePerSecond = 20
	}
	if cfg.Delivery.Burst <= 0 {
		cfg.Delivery.Burst = 1
	}
	if cfg.Flood.Limit <= 0 {
		cfg.Flood.Limit = 20
	}
	if cfg.Flood.Window <= 0 {
		cfg.Flood.Window = Duration(time.Minute)
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Admin.APIKey == "" {
		return nil, errors.New("admin.api_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
