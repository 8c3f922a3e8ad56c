package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by the bootstrap package.
const (
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Password storage modes.
const (
	HashingBcrypt = "bcrypt"
	HashingPlain  = "plain"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	Storage     StorageConfig
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Buffer      BufferConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Security    SecurityConfig
}

type StorageConfig struct {
	Backend         string
	BoltPath        string
	BoltBucket      string
	MonitorInterval time.Duration
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL       string
	Password  string
	DB        int
	KeyPrefix string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type BufferConfig struct {
	Path         string
	SyncInterval time.Duration
	MaxRetry     int
	MaxAge       time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

type SecurityConfig struct {
	PasswordHashing string
}

// Load reads configuration from environment variables (optionally .env) and applies defaults.
// Malformed numbers, booleans and durations are reported rather than silently defaulted.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	e := &env{}
	cfg := &Config{
		AppName:     e.str("APP_NAME", "todo"),
		Environment: e.str("APP_ENV", "development"),
		Storage: StorageConfig{
			Backend:         strings.ToLower(e.str("STORAGE_BACKEND", BackendBolt)),
			BoltPath:        e.str("BOLTDB_PATH", "./data/todo.db"),
			BoltBucket:      e.str("BOLTDB_BUCKET", "todo"),
			MonitorInterval: e.duration("MONITOR_INTERVAL", 10*time.Second),
		},
		HTTP: HTTPConfig{
			Host:         e.str("SERVER_HOST", "127.0.0.1"),
			Port:         e.str("SERVER_PORT", "8080"),
			ReadTimeout:  e.duration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: e.duration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  e.duration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			URL:             e.str("DATABASE_URL", ""),
			Host:            e.str("DB_HOST", "localhost"),
			Port:            e.str("DB_PORT", "5432"),
			Name:            e.str("DB_NAME", "todo_db"),
			User:            e.str("DB_USER", "todo_user"),
			Password:        e.str("DB_PASSWORD", ""),
			MaxOpenConns:    e.integer("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    e.integer("DB_MAX_IDLE_CONNS", 1),
			MaxConnLifetime: e.duration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         e.str("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:       e.str("REDIS_URL", "redis://localhost:6379"),
			Password:  e.str("REDIS_PASSWORD", ""),
			DB:        e.integer("REDIS_DB", 0),
			KeyPrefix: e.str("REDIS_KEY_PREFIX", "todo:"),
		},
		JWT: JWTConfig{
			Secret: e.str("JWT_SECRET", ""),
			Issuer: e.str("JWT_ISSUER", "todo"),
			TTL:    e.duration("JWT_TTL", 24*time.Hour),
		},
		Buffer: BufferConfig{
			Path:         e.str("BUFFER_PATH", "./data/buffer.db"),
			SyncInterval: e.duration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			MaxRetry:     e.integer("MAX_RETRY_ATTEMPTS", 3),
			MaxAge:       e.duration("BUFFER_MAX_AGE", 0),
		},
		Context: ContextConfig{
			RequestTimeout:  e.duration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    e.str("LOG_LEVEL", "info"),
			Encoding: e.str("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: e.boolean("RUN_MIGRATIONS", true),
			Path:    e.str("MIGRATIONS_PATH", "./assets/migrations"),
		},
		Security: SecurityConfig{
			PasswordHashing: strings.ToLower(e.str("PASSWORD_HASHING", HashingBcrypt)),
		},
	}
	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = cfg.Database.connString()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the bootstrap cannot act on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendBolt, BackendRedis, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend))
	}
	switch c.Security.PasswordHashing {
	case HashingBcrypt, HashingPlain:
	default:
		errs = append(errs, fmt.Errorf("unsupported PASSWORD_HASHING %q", c.Security.PasswordHashing))
	}
	if c.RemoteBackend() && c.Buffer.Path == "" {
		errs = append(errs, errors.New("BUFFER_PATH is required for remote backends"))
	}
	if c.Buffer.MaxAge < 0 {
		errs = append(errs, errors.New("BUFFER_MAX_AGE must not be negative"))
	}
	return errors.Join(errs...)
}

// RemoteBackend reports whether the selected backend lives outside the process.
func (c *Config) RemoteBackend() bool {
	return c.Storage.Backend == BackendRedis || c.Storage.Backend == BackendPostgres
}

func (d DatabaseConfig) connString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// env reads typed variables and collects parse failures.
type env struct {
	errs []error
}

func (e *env) str(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func (e *env) integer(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, val))
		return fallback
	}
	return parsed
}

func (e *env) boolean(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a boolean", key, val))
		return fallback
	}
	return parsed
}

// duration accepts Go duration strings or a bare number of seconds.
func (e *env) duration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(val); err == nil {
		return time.Duration(seconds) * time.Second
	}
	e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration", key, val))
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
