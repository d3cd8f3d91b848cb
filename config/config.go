package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Play store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Port           int
	DataDir        string
	CatalogPath    string // empty: built-in catalog
	PlayStore      string
	DefaultVariant string
	QRSize         int
	SessionMaxAge  time.Duration
	LogLevel       string
	LogFormat      string // "text" or "json"

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration
	DBSimpleProtocol  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() *Config {
	port := 8080
	// Prefer PORT (Render, Fly.io, Railway, etc.) then SPIN_PORT
	if v := envInt("PORT", 0); v > 0 {
		port = v
	} else if v := envInt("SPIN_PORT", 0); v > 0 {
		port = v
	}
	playStore := strings.ToLower(env("PLAY_STORE", StoreFile))
	switch playStore {
	case StoreMemory, StoreFile, StorePostgres, StoreRedis:
	default:
		playStore = StoreFile
	}
	return &Config{
		Port:           port,
		DataDir:        env("SPIN_DATA_DIR", "data"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		PlayStore:      playStore,
		DefaultVariant: env("DEFAULT_VARIANT", "cards"),
		QRSize:         envInt("QR_SIZE", 100),
		SessionMaxAge:  time.Duration(envInt("SESSION_MAX_AGE_HOURS", 72)) * time.Hour,
		LogLevel:       env("LOG_LEVEL", "info"),
		LogFormat:      env("LOG_FORMAT", "text"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 2),
		DBConnMaxIdleTime: time.Duration(envInt("DB_CONN_MAX_IDLE_MINUTES", 5)) * time.Minute,
		DBSimpleProtocol:  envBool("DB_SIMPLE_PROTOCOL", false),

		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns def when key is unset, not a number, or not positive.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// envBool accepts anything strconv.ParseBool does; otherwise def.
func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return b
	}
	return def
}
