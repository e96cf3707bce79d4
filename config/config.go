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
	Port              string
	DBUrl             string
	SupabaseUrl       string
	SupabaseJWTSecret string
	FrontendURL       string
	AllowedOrigins    []string
	LogLevel          string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitAIThreshold     int
	RateLimitExportThreshold int
	// AI Configuration
	AIProvider       string
	OpenAIKey        string
	OpenAIBaseURL    string
	OpenAIChatModel  string
	OpenAIATSModel   string
	GeminiKey        string
	GeminiModel      string
	AITimeoutSeconds int
	// Export Configuration
	ChromePath          string
	ExportMaxPixelWidth int
	// Object storage for exported PDFs (optional)
	S3Provider        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Endpoint        string
	R2AccountID       string
	ExportBucket      string
	// Editor sessions
	EditorSessionTTLMinutes int
}

func LoadConfig() (*Config, error) {
	// Load .env file; ignored in production when the file is absent
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Strip trailing slash to avoid double slashes (e.g. .co//auth)
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", getEnv("UPSTASH_REDIS_URL", "")),
		RedisPassword: getEnv("REDIS_PASSWORD", getEnv("UPSTASH_REDIS_PASSWORD", "")),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100), // 100 requests per window
		RateLimitAIThreshold:     getEnvInt("RATE_LIMIT_AI_THRESHOLD", 20),      // 20 model calls per window
		RateLimitExportThreshold: getEnvInt("RATE_LIMIT_EXPORT_THRESHOLD", 10),  // 10 exports per window
		// AI Configuration
		AIProvider:       getEnv("AI_PROVIDER", "openai"),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIChatModel:  getEnv("OPENAI_CHAT_MODEL", "gpt-4.1-nano"),
		OpenAIATSModel:   getEnv("OPENAI_ATS_MODEL", "gpt-4o-mini"),
		GeminiKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AITimeoutSeconds: getEnvInt("AI_TIMEOUT_SECONDS", 60),
		// Export Configuration
		ChromePath:          getEnv("CHROME_PATH", ""),
		ExportMaxPixelWidth: getEnvInt("EXPORT_MAX_PIXEL_WIDTH", 1600),
		// Object storage
		S3Provider:        strings.ToLower(getEnv("S3_PROVIDER", "")),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		ExportBucket:      getEnv("EXPORT_BUCKET", ""),
		// Editor sessions
		EditorSessionTTLMinutes: getEnvInt("EDITOR_SESSION_TTL_MINUTES", 60),
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}

	// Basic checks to surface misconfiguration early
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	if cfg.OpenAIKey == "" && cfg.GeminiKey == "" {
		log.Println("WARNING: no AI provider key configured. Chat and ATS analysis will be unavailable.")
	}

	return cfg, nil
}

// AITimeout is the per-call deadline for model requests.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

func (c *Config) EditorSessionTTL() time.Duration {
	return time.Duration(c.EditorSessionTTLMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks and trailing slashes.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
