// requester.go - Sends one image plus the system prompt to a caption provider

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GenerationFailedError is the only error kind returned by CaptionRequester.
// It collapses network, authentication, quota and malformed-response failures
// into one human-readable message.
type GenerationFailedError struct {
	Message string
	Err     error
}

func (e *GenerationFailedError) Error() string {
	return "Error generating caption: " + e.Message
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}

// IsGenerationFailed reports whether err is (or wraps) a GenerationFailedError
func IsGenerationFailed(err error) bool {
	var genErr *GenerationFailedError
	return errors.As(err, &genErr)
}

// CaptionRequester turns an uploaded image into a caption. It keeps no state
// between calls.
type CaptionRequester struct {
	provider CaptionProvider
}

// NewCaptionRequester creates a requester backed by the given provider
func NewCaptionRequester(provider CaptionProvider) *CaptionRequester {
	return &CaptionRequester{provider: provider}
}

// ProviderName returns the name of the backing provider
func (r *CaptionRequester) ProviderName() string {
	if r.provider == nil {
		return ""
	}
	return r.provider.GetProviderName()
}

// ModelName returns the model identifier of the backing provider, if known
func (r *CaptionRequester) ModelName() string {
	if mn, ok := r.provider.(ModelNamer); ok {
		return mn.GetModelName()
	}
	return ""
}

// Generate sends SystemPrompt and the image to the provider and returns the
// trimmed caption. The image is forwarded as-is: no size or content checks
// happen here. Any failure is returned as *GenerationFailedError.
func (r *CaptionRequester) Generate(ctx context.Context, image Image) (caption string, err error) {
	if r.provider == nil {
		return "", &GenerationFailedError{Message: "no caption provider configured"}
	}

	// Providers are third-party code; a panic must still end as an error string
	defer func() {
		if rec := recover(); rec != nil {
			caption = ""
			err = &GenerationFailedError{Message: fmt.Sprintf("%v", rec)}
		}
	}()

	text, err := r.provider.GenerateCaption(ctx, SystemPrompt, image)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		return "", &GenerationFailedError{Message: msg, Err: err}
	}

	return strings.TrimSpace(text), nil
}
