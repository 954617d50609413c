package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL     string
	ChatAPIURL     string
	StoragePath    string
	ServerPort     string
	RequestTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		timeout = 10 * time.Second
	}

	cfg := &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		ChatAPIURL:     getEnv("CHAT_API_URL", ""),
		StoragePath:    getEnv("STORAGE_PATH", "sqlify.db"),
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		RequestTimeout: timeout,
	}

	// The chat service ships with the main backend unless pointed elsewhere.
	if cfg.ChatAPIURL == "" {
		cfg.ChatAPIURL = cfg.APIBaseURL
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
