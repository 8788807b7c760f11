package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once in main and handed to the components that need it.
type Config struct {
	Env  string
	Port int

	// DatabaseURL is a database/sql DSN for the sqlite driver. The default is a
	// single local file next to the binary.
	DatabaseURL string

	TokenSecret string
	AccessTTL   time.Duration

	// StaticDir is served under /static; spreadsheet exports land in
	// StaticDir/exports.
	StaticDir string

	CORSOrigins []string
}

func Load() Config {
	// best effort; a missing .env file is fine
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("APP_ENV", "dev"),
		Port:        getEnvInt("PORT", 8080),
		DatabaseURL: getEnv("DATABASE_URL", "file:hospital.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"),
		TokenSecret: getEnv("SECRET_KEY", "change-me-in-production"),
		AccessTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		StaticDir:   getEnv("STATIC_DIR", "static"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

func (c Config) ExportDir() string {
	return c.StaticDir + "/exports"
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
