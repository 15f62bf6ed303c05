// interface.go - Caption Provider Interface for supporting multiple AI providers

package ai

import "context"

// Image is one uploaded image, held in memory for the duration of a single
// caption request.
type Image struct {
	Filename string
	MIMEType string
	Data     []byte
}

// CaptionProvider defines the interface that all caption providers must implement
// This allows us to support multiple AI providers (Gemini, Mistral) with the same interface
type CaptionProvider interface {
	// GenerateCaption sends the prompt followed by the image to the remote
	// model in a single call and returns the raw response text.
	GenerateCaption(ctx context.Context, prompt string, image Image) (string, error)

	// GetProviderName returns the name of the provider (e.g., "gemini", "mistral")
	GetProviderName() string
}

// ModelNamer is implemented by providers that can report the model they call.
type ModelNamer interface {
	GetModelName() string
}
