package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string
	DBURL            string
	OmdbURL          string
	OmdbAPIKey       string
	OmdbTimeoutSecs  int
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int
	DBMaxConns       int
	DBMinConns       int
	DBMaxIdleSecs    int
	DBMaxLifeSecs    int
	DBConnTimeout    int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DBURL:            os.Getenv("DB_URL"),
		OmdbURL:          getEnv("OMDB_URL", "https://www.omdbapi.com"),
		OmdbAPIKey:       os.Getenv("OMDB_API_KEY"),
		OmdbTimeoutSecs:  getEnvInt("OMDB_TIMEOUT_SECS", 5),
		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:       getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:    getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:    getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeout:    getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.OmdbURL == "" {
		return Config{}, fmt.Errorf("OMDB_URL is required")
	}
	if cfg.OmdbAPIKey == "" {
		return Config{}, fmt.Errorf("OMDB_API_KEY is required")
	}
	if cfg.OmdbTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("OMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
