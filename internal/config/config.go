package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBDSN         string
	ServerPort    string
	SessionSecret string
	SessionName   string
	// SessionMaxAge is the cookie lifetime in seconds.
	SessionMaxAge int

	LogMode string
	LogFile string

	StoreName      string
	CurrencySymbol string
}

// Load reads the environment, optionally seeded from a .env file.
// Only DB_DSN is mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBDSN:          os.Getenv("DB_DSN"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionName:    getEnv("SESSION_NAME", "pos_session"),
		SessionMaxAge:  getEnvInt("SESSION_MAX_AGE", 7*24*60*60),
		LogMode:        getEnv("LOG_MODE", "development"),
		LogFile:        os.Getenv("LOG_FILE"),
		StoreName:      getEnv("STORE_NAME", "Marco Aesthetics"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "K"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	return cfg, nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
