package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ModeMulti  = "multi"
	ModeSingle = "single"

	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"

	// Only suitable for local development; a warning is logged when in use.
	defaultSessionSecret = "workout-log-dev-session-secret"
	defaultJWTSecret     = "workout-log-dev-jwt-secret"
)

// Config holds every runtime setting of the service.
type Config struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DBPath            string        `mapstructure:"db_path"`
	Mode              string        `mapstructure:"mode"`
	RoutinePath       string        `mapstructure:"routine_path"`
	SessionSecret     string        `mapstructure:"session_secret"`
	SessionBackend    string        `mapstructure:"session_backend"`
	SessionMaxAge     time.Duration `mapstructure:"session_max_age"`
	RedisAddr         string        `mapstructure:"redis_addr"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	JWTTTL            time.Duration `mapstructure:"jwt_ttl"`
	OwnerScopedDelete bool          `mapstructure:"owner_scoped_delete"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFormat         string        `mapstructure:"log_format"`
	OTelEndpoint      string        `mapstructure:"otel_endpoint"`
}

// key -> environment variable
var envBindings = map[string]string{
	"host":                "HOST",
	"port":                "PORT",
	"db_path":             "DB_PATH",
	"mode":                "APP_MODE",
	"routine_path":        "ROUTINE_PATH",
	"session_secret":      "SESSION_SECRET",
	"session_backend":     "SESSION_BACKEND",
	"session_max_age":     "SESSION_MAX_AGE",
	"redis_addr":          "REDIS_CONNSTRING",
	"jwt_secret":          "JWT_SECRET",
	"jwt_ttl":             "JWT_TTL",
	"owner_scoped_delete": "OWNER_SCOPED_DELETE",
	"log_level":           "LOG_LEVEL",
	"log_format":          "LOG_FORMAT",
	"otel_endpoint":       "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// key -> command line flag
var flagBindings = map[string]string{
	"host":      "host",
	"port":      "port",
	"db_path":   "db-path",
	"mode":      "mode",
	"log_level": "log-level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 5000)
	v.SetDefault("db_path", "database.db")
	v.SetDefault("mode", ModeMulti)
	v.SetDefault("routine_path", "static/rutina.json")
	v.SetDefault("session_secret", defaultSessionSecret)
	v.SetDefault("session_backend", SessionBackendCookie)
	v.SetDefault("session_max_age", 24*time.Hour)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_ttl", 72*time.Hour)
	v.SetDefault("owner_scoped_delete", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("otel_endpoint", "")
}

// Load builds the configuration from defaults, an optional dotenv file, the
// process environment and the given flags, in increasing precedence.
// envFile may be empty; a missing file is not an error.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Mode != ModeMulti && c.Mode != ModeSingle {
		return fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeMulti, ModeSingle)
	}
	if c.SessionBackend != SessionBackendCookie && c.SessionBackend != SessionBackendRedis {
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.SessionMaxAge <= 0 || c.JWTTTL <= 0 {
		return errors.New("session_max_age and jwt_ttl must be positive")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MultiUser reports whether records are owned by authenticated users.
func (c *Config) MultiUser() bool {
	return c.Mode == ModeMulti
}

// UsesDefaultSecrets reports whether either signing secret was left unset.
func (c *Config) UsesDefaultSecrets() bool {
	return c.SessionSecret == defaultSessionSecret || c.JWTSecret == defaultJWTSecret
}
