// Package config loads service configuration from defaults, an optional YAML
// file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "CHOCOBO_"

// Store backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Store  StoreConfig  `koanf:"store"`
	Admin  AdminConfig  `koanf:"admin"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Port         string `koanf:"port"`
	CORSOrigins  string `koanf:"cors_origins"` // comma separated
	FrontendDist string `koanf:"frontend_dist"`
}

type StoreConfig struct {
	Backend    string         `koanf:"backend"`
	SQLitePath string         `koanf:"sqlite_path"`
	Postgres   PostgresConfig `koanf:"postgres"`
	PrimaryKey string         `koanf:"primary_key"`
	LegacyKey  string         `koanf:"legacy_key"`
}

type AdminConfig struct {
	// Token, when set, must be presented as a bearer token on mutation routes
	Token         string  `koanf:"token"`
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}

type LogConfig struct {
	// SQLLevel is the gorm logger level: silent, error, warn or info
	SQLLevel string `koanf:"sql_level"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: "http://localhost:5173,http://localhost:3000",
		},
		Store: StoreConfig{
			Backend:    BackendSQLite,
			SQLitePath: "./chocobo_tracker.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    "5432",
				SSLMode: "disable",
			},
			PrimaryKey: "chocobo_cards",
			LegacyKey:  "chocobo-cards",
		},
		Admin: AdminConfig{
			RatePerSecond: 2,
			Burst:         5,
		},
		Log: LogConfig{
			SQLLevel: "warn",
		},
	}
}

// CORSOriginList splits the configured origins
func (c ServerConfig) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// unprefixedEnv maps the plain environment variables used by earlier
// deployments onto config keys
var unprefixedEnv = map[string]string{
	"PORT":                 "server.port",
	"CORS_ALLOWED_ORIGINS": "server.cors_origins",
	"FRONTEND_DIST_PATH":   "server.frontend_dist",
	"DB_PATH":              "store.sqlite_path",
	"DB_USER":              "store.postgres.user",
	"DB_PASSWORD":          "store.postgres.password",
	"DB_HOST":              "store.postgres.host",
	"DB_PORT":              "store.postgres.port",
	"DB_NAME":              "store.postgres.dbname",
	"ADMIN_TOKEN":          "admin.token",
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Path to a YAML config file")
	fs.String("server.port", d.Server.Port, "HTTP listen port")
	fs.String("store.backend", d.Store.Backend, "Key-value backend: sqlite, postgres or memory")
	fs.String("store.sqlite_path", d.Store.SQLitePath, "SQLite database path")
	fs.String("log.sql_level", d.Log.SQLLevel, "SQL log level: silent, error, warn or info")
}

// Load parses args into fs and builds the configuration. fs must already
// carry the flags from RegisterFlags; callers may add their own flags too.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	configPath, _ := fs.GetString("config")
	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return unprefixedEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// CHOCOBO_STORE__SQLITE_PATH -> store.sqlite_path
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Flag defaults only apply to keys no earlier layer has set
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Store.Postgres.User == "" || c.Store.Postgres.DBName == "" {
			return errors.New("store.postgres.user and store.postgres.dbname are required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Store.PrimaryKey == "" {
		return errors.New("store.primary_key must not be empty")
	}
	if c.Store.PrimaryKey == c.Store.LegacyKey {
		return errors.New("store.primary_key and store.legacy_key must differ")
	}
	if c.Admin.RatePerSecond <= 0 || c.Admin.Burst <= 0 {
		return errors.New("admin.rate_per_second and admin.burst must be positive")
	}
	return nil
}
