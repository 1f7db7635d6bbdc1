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
	Github   GithubConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type GithubConfig struct {
	BaseURL string
}

type AIConfig struct {
	BaseURL         string
	Model           string
	ClusteringModel string
	// TopicDelaySeconds spaces sequential generations to stay under
	// provider rate limits.
	TopicDelaySeconds int
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
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", "cornelius.db"),
		},
		Ai: AIConfig{
			BaseURL:           getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:             getEnv("AI_MODEL", "deepseek/deepseek-chat"),
			ClusteringModel:   getEnv("AI_CLUSTERING_MODEL", "deepseek/deepseek-chat"),
			TopicDelaySeconds: getEnvAsInt("AI_TOPIC_DELAY_SECONDS", 3),
		},
		Github: GithubConfig{
			BaseURL: getEnv("GITHUB_API_BASE_URL", ""),
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
