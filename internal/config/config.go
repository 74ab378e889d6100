package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	HistoryWindow   string // default lookback for volatility/beta/correlation
	BenchmarkTicker string // beta benchmark when the model names none

	HTTPAddr        string
	SessionTTLMins  int
	MaxLogSizeMB    int64
	MaxLogBackups   int

	Version string
}

// Load initializes the configuration. It reads a .env file when present,
// validates the required variables, and logs the non-secret surface.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	// Critical and confidential variables. The Alpaca SDK reads its keys
	// from the environment itself; we only verify they are set.
	requiredSecretVars := map[string]bool{
		"GEMINI_API_KEY":      true,
		"APCA_API_KEY_ID":     true,
		"APCA_API_SECRET_KEY": true,
	}

	var missing []string
	for key := range requiredSecretVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		log.Fatalf("CRITICAL: Missing required environment variables: %v", missing)
	}

	cfg := &Config{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		HistoryWindow:   getEnv("HISTORY_WINDOW", "1y"),
		BenchmarkTicker: getEnv("BENCHMARK_TICKER", "SPY"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		SessionTTLMins:  getEnvAsInt("SESSION_TTL_MINS", 60),
		MaxLogSizeMB:    int64(getEnvAsInt("MAX_LOG_SIZE_MB", 10)),
		MaxLogBackups:   getEnvAsInt("MAX_LOG_BACKUPS", 3),
		Version:         getEnv("APP_VERSION", "dev"),
	}

	// Print variables defined in .env, masking secrets to their last 4 chars.
	envMap, err := godotenv.Read()
	if err == nil {
		log.Println("--- .env File Variables ---")
		for key, val := range envMap {
			if requiredSecretVars[key] {
				masked := "***"
				if len(val) > 4 {
					masked = "***" + val[len(val)-4:]
				}
				log.Printf("%s=%s", key, masked)
			} else {
				log.Printf("%s=%s", key, val)
			}
		}
		log.Println("---------------------------")
	}

	return cfg
}
