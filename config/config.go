package config

import "os"

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret    string
	GeminiAPIKey string
	CacheFile    string
	SeedSchedule string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load populates AppConfig from environment variables.
func Load() {
	AppConfig = Config{
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		CacheFile:    os.Getenv("AI_CACHE_FILE"),
		SeedSchedule: os.Getenv("SEED_SCHEDULE"),
	}
	if AppConfig.CacheFile == "" {
		AppConfig.CacheFile = "ai_analysis_cache.json"
	}
}
