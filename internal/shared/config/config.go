package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	Env                string
	LogLevel           string
	DatabaseURL        string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	// AuthStateBackend is "memory" or "redis"; redis reuses RedisURL.
	AuthStateBackend string

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string

	VideoProvider string
	VideoModel    string
	GeminiAPIKey  string

	QueueBackend  string
	RedisURL      string
	RedisQueueKey string
	SQSQueueURL   string
	AWSRegion     string

	GenerationCreditCost int
	UsageLimit           int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files; variables already set win.
	_ = godotenv.Load(existingFiles(".env", "cmd/.env")...)

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:                env,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        dbURL,
		JWTSecret:          getEnv("JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		AuthStateBackend:   normalizeAuthStateBackend(getEnv("AUTH_STATE_BACKEND", "")),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		VideoProvider: strings.ToLower(getEnv("VIDEO_PROVIDER", "gemini")),
		VideoModel:    getEnv("VIDEO_MODEL", "veo-3.0-fast-generate-001"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),

		QueueBackend:  normalizeQueueBackend(getEnv("QUEUE_BACKEND", "")),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisQueueKey: getEnv("REDIS_QUEUE_KEY", "cameo:generations"),
		SQSQueueURL:   getEnv("SQS_QUEUE_URL", ""),
		AWSRegion:     getEnv("AWS_REGION", ""),

		GenerationCreditCost: getEnvInt("GENERATION_CREDIT_COST", 1),
		UsageLimit:           getEnvInt("USAGE_LIMIT", 0),
	}
}

func existingFiles(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		// godotenv.Load with no args falls back to .env.
		return []string{".env"}
	}
	return out
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

// normalizeQueueBackend returns "" when generations should be processed in-process.
func normalizeQueueBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqs":
		return "sqs"
	case "redis":
		return "redis"
	case "memory":
		return "memory"
	default:
		return ""
	}
}

func normalizeAuthStateBackend(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "redis") {
		return "redis"
	}
	return "memory"
}
