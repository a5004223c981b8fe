package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/viper"
)

// Session storage backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	App       AppConfig
	Providers ProvidersConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           int
	GinMode        string // debug, release, test
	TrustedProxies []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text, console
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	LoadTimeout     time.Duration // Upper bound for one donation page load
	CharityCacheTTL time.Duration
	DefaultLanguage string
}

// ProvidersConfig holds upstream API locations
type ProvidersConfig struct {
	LocationURL       string
	ReverseGeocodeURL string
	CharitiesURL      string // Empty means the embedded catalog is used
	CharitiesFile     string // Optional YAML catalog on disk
	UserAgent         string
	Timeout           time.Duration
}

// SessionConfig holds visitor session settings
type SessionConfig struct {
	Backend    string // memory, redis
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// RedisConfig holds the redis connection used by the redis session backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds the per-IP limits applied to the JSON API
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.charity-web")

	setDefaults(v)

	// Read from environment variables, e.g. CHARITY_WEB_SERVER_PORT
	v.SetEnvPrefix("CHARITY_WEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("app.loadTimeout", 10*time.Second)
	v.SetDefault("app.charityCacheTTL", 10*time.Minute)
	v.SetDefault("app.defaultLanguage", "en")
	v.SetDefault("providers.locationURL", "http://ip-api.com/json")
	v.SetDefault("providers.reverseGeocodeURL", "https://nominatim.openstreetmap.org/reverse")
	v.SetDefault("providers.charitiesURL", "")
	v.SetDefault("providers.charitiesFile", "")
	v.SetDefault("providers.userAgent", "charity-web/1.0")
	v.SetDefault("providers.timeout", 5*time.Second)
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookieName", "sid")
	v.SetDefault("session.secure", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.requestsPerSecond", 5)
	v.SetDefault("ratelimit.burst", 20)
}

// Validate checks values that would otherwise fail late at request time
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.App.LoadTimeout < 0 {
		return fmt.Errorf("app.loadTimeout must not be negative")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookieName must be set")
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *Config) newLogger(w io.Writer) *slog.Logger {
	level := parseLevel(c.Log.Level)

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "console":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
