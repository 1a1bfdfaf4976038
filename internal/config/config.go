package config

import "os"

type Config struct {
	Port        string
	DatabaseDSN string
	MediaDir    string
	Env         string
}

// Load reads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (loaded in main) > default.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "foodlog.db"),
		MediaDir:    getEnv("MEDIA_DIR", "media"),
		Env:         getEnv("APP_ENV", "development"),
	}
}

func (c Config) Development() bool { return c.Env == "development" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
