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
	Auth     AuthConfig
	Ai       AIConfig
	Speech   SpeechConfig
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

type AuthConfig struct {
	Mode          string // "jwt" validates locally, "remote" asks the provider
	JwtSecret     string
	ProviderURL   string
	ProviderKey   string
	CacheTTLInSec int
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	HuggingFaceToken  string
	EmbeddingProvider string // "ollama"
	EmbeddingModel    string
	EmbedTopic        string
}

type SpeechConfig struct {
	SarvamBaseURL string
	SarvamAPIKey  string
	STTModel      string
	TTSModel      string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			Mode:          getEnv("AUTH_MODE", "jwt"),
			JwtSecret:     getEnv("AUTH_JWT_SECRET", ""),
			ProviderURL:   getEnv("AUTH_PROVIDER_URL", ""),
			ProviderKey:   getEnv("AUTH_PROVIDER_KEY", ""),
			CacheTTLInSec: getEnvAsInt("AUTH_CACHE_TTL_SECONDS", 300),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceToken:  getEnv("HUGGINGFACE_API_TOKEN", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbedTopic:        getEnv("EMBED_MESSAGE_TOPIC_NAME", "EMBED_MESSAGE_CONTENT"),
		},
		Speech: SpeechConfig{
			SarvamBaseURL: getEnv("SARVAM_BASE_URL", "https://api.sarvam.ai"),
			SarvamAPIKey:  getEnv("SARVAM_API_KEY", ""),
			STTModel:      getEnv("SARVAM_STT_MODEL", "saarika:v2"),
			TTSModel:      getEnv("SARVAM_TTS_MODEL", "bulbul:v1"),
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
