package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	GeminiAPIKey     string
	TranslationModel string
	SourceLang       string
	TargetLang       string
	WorkerCount      int
	FileDelayMs      int
	MaxRetries       int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		TranslationModel: getEnv("TRANSLATION_MODEL", "gemini-2.5-flash"),
		SourceLang:       getEnv("SOURCE_LANG", "Chinese"),
		TargetLang:       getEnv("TARGET_LANG", "English"),
		WorkerCount:      getEnvInt("WORKER_COUNT", 1),
		FileDelayMs:      getEnvInt("FILE_DELAY_MS", 300),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
