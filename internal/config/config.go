package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultEnv    = "dev"
	defaultDBPath = "./dairybook.db"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	DBPath         string
	Port           string
	MetricsEnabled bool
}

// Load reads environment variables and returns a populated Config.
// A local .env file is honored when present; production should use real
// env injection.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            getenvDefault("APP_ENV", defaultEnv),
		DBPath:         getenvDefault("DB_PATH", defaultDBPath),
		Port:           getenvDefault("PORT", defaultPort),
		MetricsEnabled: getenvDefault("METRICS_ENABLED", "true") == "true",
	}
}

// IsDev reports whether the app runs in the dev environment, where schema
// migrations are applied on startup.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
