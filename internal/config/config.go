package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	TokenKey    string
	DBDriver    string
	DatabaseURL string
	RateLimit   float64
	RateBurst   int
	BotToken    string
}

// Load reads .env (if present) and the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Addr:        getenv("ADDR", ":443"),
		TLSCert:     getenv("TLS_CERT", "server.crt"),
		TLSKey:      getenv("TLS_KEY", "server.key"),
		TokenKey:    os.Getenv("TOKEN_KEY"),
		DBDriver:    getenv("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BotToken:    os.Getenv("TOKEN_BOT"),
	}

	var err error
	if cfg.RateLimit, err = strconv.ParseFloat(getenv("RATE_LIMIT", "1"), 64); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	if cfg.RateBurst, err = strconv.Atoi(getenv("RATE_BURST", "3")); err != nil {
		return Config{}, fmt.Errorf("RATE_BURST: %w", err)
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	return cfg, nil
}

// RequireToken is for the web server: the JWT key has no default.
func (c Config) RequireToken() error {
	if c.TokenKey == "" {
		return errors.New("TOKEN_KEY environment variable is not set")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
