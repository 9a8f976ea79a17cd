package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Completion service
	AIProvider    string // "groq", "ollama" or "auto"
	GroqAPIKey    string
	GroqBaseURL   string
	GroqModel     string
	OllamaBaseURL string
	OllamaModel   string

	// Push gateway
	FirebaseCredentials string

	// Delivery worker
	WorkerInterval      time.Duration
	WorkerBatchSize     int
	ClaimTimeout        time.Duration
	MaxDeliveryAttempts int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	interval := 60 * time.Second
	if v := os.Getenv("WORKER_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			interval = parsed
		}
	}

	claimTimeout := 5 * time.Minute
	if v := os.Getenv("CLAIM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			claimTimeout = parsed
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=aarvi port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:     getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		WorkerInterval:      interval,
		WorkerBatchSize:     getEnvInt("WORKER_BATCH_SIZE", 50),
		ClaimTimeout:        claimTimeout,
		MaxDeliveryAttempts: getEnvInt("MAX_DELIVERY_ATTEMPTS", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
