package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port          string
	AllowOrigins  string
	AdminBearer   string
	AppEnv        string
	LogLevel      string
	ReqTimeoutSec int
	MaxUploadMB   int64

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	MediaRoot         string
	BcryptCost        int
	PasswordMinLength int

	SeedContacts int
	SeedRandom   int64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" { return v }
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil { return i }
	}
	return def
}

func atoi64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil { return i }
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigins:  getenv("ALLOW_ORIGINS", "*"),
		AdminBearer:   getenv("ADMIN_BEARER", ""),
		AppEnv:        getenv("APP_ENV", "development"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		ReqTimeoutSec: atoi("REQUEST_TIMEOUT_SECONDS", 30),
		MaxUploadMB:   int64(atoi("MAX_UPLOAD_MB", 5)),

		DBDriver:   getenv("DB_DRIVER", "postgres"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", ""),
		DBName:     getenv("DB_NAME", "agenda"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		SQLitePath: getenv("SQLITE_PATH", "agenda.db"),

		MediaRoot:         getenv("MEDIA_ROOT", "media"),
		BcryptCost:        atoi("BCRYPT_COST", 10),
		PasswordMinLength: atoi("PASSWORD_MIN_LENGTH", 8),

		SeedContacts: atoi("SEED_CONTACTS", 1000),
		SeedRandom:   atoi64("SEED_RANDOM", 0),
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
