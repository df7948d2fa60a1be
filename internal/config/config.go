package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	// GeminiAPIKey enables the AI description assist; empty degrades that
	// feature to a user-visible error without affecting the rest of the app.
	GeminiAPIKey string
	// ChromeRemoteURL points the export pipeline at a remote Chrome instance
	// instead of launching one.
	ChromeRemoteURL string
	// ChromeNoSandbox is required when Chrome runs in Docker or as root.
	ChromeNoSandbox bool
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "file:quotation.db"),
		Env:             getEnv("APP_ENV", "development"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		ChromeRemoteURL: os.Getenv("CHROME_REMOTE_URL"),
		ChromeNoSandbox: ParseBool("CHROME_NO_SANDBOX", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
