package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleBooks string
	HuggingFace string
	JinaAi      string
	EmbedTopic  string // watermill topic for embedding jobs
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "jina"
	OllamaBaseURL     string
	OllamaModel       string // embedding model
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

type RecommendConfig struct {
	CacheEnabled          bool
	CacheTTL              time.Duration
	MaxEnrichmentAttempts int
	ExcludeMatureContent  bool
	BlockedGenres         []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleBooks: getEnv("GOOGLE_BOOKS_API_KEY", ""),
			HuggingFace: getEnv("HUGGINGFACE_API_KEY", ""),
			JinaAi:      getEnv("JINA_API_KEY", ""),
			EmbedTopic:  getEnv("EMBED_BOOK_TOPIC_NAME", "EMBED_BOOK"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Recommend: RecommendConfig{
			CacheEnabled:          getEnvAsBool("RECOMMENDATION_CACHE_ENABLED", true),
			CacheTTL:              getEnvAsDuration("RECOMMENDATION_CACHE_TTL", time.Hour),
			MaxEnrichmentAttempts: getEnvAsInt("RECOMMENDATION_MAX_ENRICHMENT_ATTEMPTS", 20),
			ExcludeMatureContent:  getEnvAsBool("RECOMMENDATION_EXCLUDE_MATURE", true),
			BlockedGenres:         splitList(getEnv("RECOMMENDATION_BLOCKED_GENRES", "")),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
