// gemini.go - Gemini API client for caption generation

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultImageMIMEType = "image/jpeg"

// GeminiProvider implements CaptionProvider for the Gemini API
type GeminiProvider struct {
	apiKey    string
	modelName string
}

// NewGeminiProvider creates a new Gemini provider. The credential is not
// checked until the first request.
func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// GetProviderName returns "gemini"
func (g *GeminiProvider) GetProviderName() string {
	return "gemini"
}

// GetModelName returns the configured Gemini model identifier
func (g *GeminiProvider) GetModelName() string {
	return g.modelName
}

// GenerateCaption calls Gemini once with [prompt, image] and returns the text
func (g *GeminiProvider) GenerateCaption(ctx context.Context, prompt string, image Image) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	if g.modelName == "" {
		return "", fmt.Errorf("MODEL_NAME is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)

	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = defaultImageMIMEType
	}

	logInfo(ctx, "🤖 Gemini request | model: %s | image: %s (%d bytes)", g.modelName, mimeType, len(image.Data))

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{
			MIMEType: mimeType,
			Data:     image.Data,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	recordUsage(ctx, resp)

	return responseText(resp)
}

// recordUsage reports the prompt and candidate token counts of a response
func recordUsage(ctx context.Context, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	recordTokens(ctx, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked by Gemini: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no response from Gemini API")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini API (finish reason: %s)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	return sb.String(), nil
}
