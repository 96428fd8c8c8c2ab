package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Match    MatchConfig
	Topics   TopicConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OllamaBaseURL       string
	EmbeddingModel      string
	GenerationModel     string
	EmbedCacheTTLMinute int
}

type MatchConfig struct {
	TopK             int
	ScoreThreshold   float64
	CandidateDelayMs int
	Concurrency      int
	ChunkWords       int
}

type TopicConfig struct {
	EmbedDocument string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:      getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GenerationModel:     getEnv("OLLAMA_GENERATION_MODEL", "llama3.2"),
			EmbedCacheTTLMinute: getEnvAsInt("EMBED_CACHE_TTL_MINUTES", 60),
		},
		Match: MatchConfig{
			TopK:             getEnvAsInt("MATCH_TOP_K", 20),
			ScoreThreshold:   getEnvAsFloat("MATCH_SCORE_THRESHOLD", 5.0),
			CandidateDelayMs: getEnvAsInt("MATCH_CANDIDATE_DELAY_MS", 500),
			Concurrency:      getEnvAsInt("MATCH_CONCURRENCY", 1),
			ChunkWords:       getEnvAsInt("EMBED_CHUNK_WORDS", 1200),
		},
		Topics: TopicConfig{
			EmbedDocument: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
