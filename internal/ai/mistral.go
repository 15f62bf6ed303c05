// mistral.go - Mistral AI client for caption generation

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MistralProvider implements CaptionProvider for the Mistral vision chat API
type MistralProvider struct {
	apiKey    string
	modelName string
	baseURL   string
	client    *http.Client
}

// NewMistralProvider creates a new Mistral AI provider. A nil httpClient
// uses http.DefaultClient.
func NewMistralProvider(apiKey, modelName, baseURL string, httpClient *http.Client) *MistralProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MistralProvider{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    httpClient,
	}
}

// GetProviderName returns "mistral"
func (m *MistralProvider) GetProviderName() string {
	return "mistral"
}

// GetModelName returns the configured Mistral model identifier
func (m *MistralProvider) GetModelName() string {
	return m.modelName
}

// Mistral chat completion request/response structures
type mistralContentPart struct {
	Type     string `json:"type"`                // "text" or "image_url"
	Text     string `json:"text,omitempty"`      // for type="text"
	ImageURL string `json:"image_url,omitempty"` // base64 data URL for type="image_url"
}

type mistralMessage struct {
	Role    string               `json:"role"`
	Content []mistralContentPart `json:"content"`
}

type mistralChatRequest struct {
	Model    string           `json:"model"`
	Messages []mistralMessage `json:"messages"`
}

type mistralChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type mistralErrorResponse struct {
	Message interface{} `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e mistralErrorResponse) text() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	switch msg := e.Message.(type) {
	case nil:
		return ""
	case string:
		return msg
	default:
		b, _ := json.Marshal(msg)
		return string(b)
	}
}

// GenerateCaption calls Mistral once with [prompt, image] and returns the text
func (m *MistralProvider) GenerateCaption(ctx context.Context, prompt string, image Image) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("MISTRAL_API_KEY is not configured")
	}

	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = defaultImageMIMEType
	}

	imageURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image.Data))

	request := mistralChatRequest{
		Model: m.modelName,
		Messages: []mistralMessage{
			{
				Role: "user",
				Content: []mistralContentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: imageURL},
				},
			},
		},
	}

	logInfo(ctx, "🔷 Mistral request | model: %s | image: %s (%d bytes)", m.modelName, mimeType, len(image.Data))

	response, err := m.callChatAPI(ctx, request)
	if err != nil {
		return "", fmt.Errorf("mistral API call failed: %w", err)
	}

	if response.Usage != nil {
		recordTokens(ctx, response.Usage.PromptTokens, response.Usage.CompletionTokens)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from Mistral API")
	}

	text := response.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from Mistral API")
	}

	return text, nil
}

// callChatAPI makes HTTP request to the Mistral chat completions endpoint
func (m *MistralProvider) callChatAPI(ctx context.Context, request mistralChatRequest) (*mistralChatResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", m.apiKey))

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp mistralErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.text() != "" {
			return nil, fmt.Errorf("mistral API error (%d): %s", resp.StatusCode, errorResp.text())
		}
		return nil, fmt.Errorf("mistral API error (%d): %s", resp.StatusCode, string(body))
	}

	var response mistralChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}
