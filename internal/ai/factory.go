// factory.go - Caption Provider Factory for creating provider instances

package ai

import (
	"fmt"
	"log"

	"github.com/bosocmputer/sar_caption_gemini/configs"
)

// CreateCaptionProvider creates a caption provider based on configuration
func CreateCaptionProvider(cfg configs.Config) (CaptionProvider, error) {
	switch cfg.CaptionProvider {
	case configs.ProviderGemini, "":
		log.Printf("🔵 Creating Gemini caption provider (model: %s)", cfg.ModelName)
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.ModelName), nil

	case configs.ProviderMistral:
		log.Printf("🔷 Creating Mistral caption provider (model: %s)", cfg.MistralModelName)
		return NewMistralProvider(cfg.MistralAPIKey, cfg.MistralModelName, cfg.MistralBaseURL, nil), nil

	default:
		return nil, fmt.Errorf("unsupported caption provider: %s (supported: gemini, mistral)", cfg.CaptionProvider)
	}
}
