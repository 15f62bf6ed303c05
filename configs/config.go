// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported caption providers
const (
	ProviderGemini  = "gemini"
	ProviderMistral = "mistral"
)

// Config holds every setting read at startup. It is loaded once and passed
// by value to the components that need it; nothing reads the environment
// after LoadConfig returns.
type Config struct {
	// Caption provider: "gemini" or "mistral"
	CaptionProvider string

	// Gemini AI Configuration
	GeminiAPIKey string
	ModelName    string

	// Mistral AI Configuration
	MistralAPIKey    string
	MistralModelName string
	MistralBaseURL   string

	// Server Configuration
	Port           string
	AllowedOrigins string
	ReleaseMode    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()

	// Missing credentials surface on the first caption request, not here
	switch cfg.CaptionProvider {
	case ProviderMistral:
		if cfg.MistralAPIKey == "" {
			log.Println("⚠️  MISTRAL_API_KEY is not set, caption requests will fail")
		}
	default:
		if cfg.GeminiAPIKey == "" {
			log.Println("⚠️  GEMINI_API_KEY is not set, caption requests will fail")
		}
		if cfg.ModelName == "" {
			log.Println("⚠️  MODEL_NAME is not set, caption requests will fail")
		}
	}

	log.Printf("✓ Configuration loaded successfully (provider: %s)", cfg.CaptionProvider)
	return cfg
}

// FromEnv reads the configuration from the current process environment
// without touching any .env file.
func FromEnv() Config {
	return Config{
		CaptionProvider: getEnv("CAPTION_PROVIDER", ProviderGemini),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		ModelName:    getEnv("MODEL_NAME", ""),

		MistralAPIKey:    getEnv("MISTRAL_API_KEY", ""),
		MistralModelName: getEnv("MISTRAL_MODEL_NAME", "pixtral-12b-2409"),
		MistralBaseURL:   getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		ReleaseMode:    getEnv("GIN_MODE", "") == "release" || getEnvBool("RELEASE_MODE", false),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
