package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	AIAPIKey    string
	AIBaseURL   string
	AIModel     string
	LogLevel    string
	LogFormat   string
	GinMode     string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AIAPIKey:    os.Getenv("AI_API_KEY"),
		AIBaseURL:   getEnvOrDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		AIModel:     getEnvOrDefault("AI_MODEL", "gemini-2.5-flash"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "json"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
