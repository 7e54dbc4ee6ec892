package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = "8080"
	defaultCacheTTL     = 10 * time.Minute
	defaultTickInterval = time.Second
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// RedisConfig enables the shared stores when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// TTL applies to the per-learner session markers.
	TTL string `yaml:"ttl"`
}

// PostgresConfig switches the catalog source from fixtures to the database when URL is set.
type PostgresConfig struct {
	URL string `yaml:"url"`
}

type QuizConfig struct {
	// TTL bounds how long the Redis quiz catalog lives before a reload from the source.
	TTL string `yaml:"ttl"`
	// TickInterval drives session countdowns on the wall clock; "0" leaves ticking to clients.
	TickInterval string `yaml:"tick_interval"`
}

type CatalogConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Port picks the listen port: an explicit override first, then the file, then DefaultPort.
func (c Config) Port(override string) string {
	if override != "" {
		return override
	}
	if c.Server.Port != "" {
		return c.Server.Port
	}
	return DefaultPort
}

func (c Config) SessionMarkerTTL() time.Duration { return duration(c.Redis.TTL, defaultCacheTTL) }
func (c Config) CatalogTTL() time.Duration { return duration(c.Quiz.TTL, defaultCacheTTL) }
func (c Config) TickInterval() time.Duration { return duration(c.Quiz.TickInterval, defaultTickInterval) }

// RefreshInterval is zero unless configured: a refresh replaces learner progress.
func (c Config) RefreshInterval() time.Duration { return duration(c.Catalog.RefreshInterval, 0) }

// LogLevel maps the configured level name onto slog; unknown names mean info.
func (c Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// JSONLogs reports whether logs should be emitted as JSON instead of text.
func (c Config) JSONLogs() bool {
	return strings.EqualFold(c.Log.Format, "json")
}

// duration parses raw or returns fallback when it is empty or malformed.
func duration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
