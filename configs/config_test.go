package configs

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"CAPTION_PROVIDER", "GEMINI_API_KEY", "MODEL_NAME", "MISTRAL_API_KEY",
		"MISTRAL_MODEL_NAME", "MISTRAL_BASE_URL", "PORT", "ALLOWED_ORIGINS",
		"GIN_MODE", "RELEASE_MODE",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.CaptionProvider != ProviderGemini {
		t.Errorf("Expected provider %q, got %q", ProviderGemini, cfg.CaptionProvider)
	}
	if cfg.GeminiAPIKey != "" || cfg.ModelName != "" {
		t.Errorf("Expected empty Gemini settings, got key=%q model=%q", cfg.GeminiAPIKey, cfg.ModelName)
	}
	if expected, actual := "8080", cfg.Port; expected != actual {
		t.Errorf("Expected port %q, got %q", expected, actual)
	}
	if expected, actual := "*", cfg.AllowedOrigins; expected != actual {
		t.Errorf("Expected origins %q, got %q", expected, actual)
	}
	if cfg.ReleaseMode {
		t.Error("Expected debug mode by default")
	}
}

func TestFromEnvKeyAndModelAreIndependent(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret-key")
	t.Setenv("MODEL_NAME", "gemini-2.5-flash")
	t.Setenv("GIN_MODE", "release")

	cfg := FromEnv()

	if expected, actual := "secret-key", cfg.GeminiAPIKey; expected != actual {
		t.Errorf("Expected key %q, got %q", expected, actual)
	}
	if expected, actual := "gemini-2.5-flash", cfg.ModelName; expected != actual {
		t.Errorf("Expected model %q, got %q", expected, actual)
	}
	if !cfg.ReleaseMode {
		t.Error("Expected release mode when GIN_MODE=release")
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SOME_FLAG", "not-a-bool")
	if !getEnvBool("SOME_FLAG", true) {
		t.Error("Expected default for unparsable value")
	}

	t.Setenv("SOME_FLAG", "false")
	if getEnvBool("SOME_FLAG", true) {
		t.Error("Expected parsed false")
	}
}

func TestLoadConfigWarnsOnMissingCredentials(t *testing.T) {
	t.Setenv("CAPTION_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MODEL_NAME", "")

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	// Returning at all means no log.Fatal on the missing key
	cfg := LoadConfig()

	if cfg.GeminiAPIKey != "" || cfg.ModelName != "" {
		t.Errorf("Expected empty Gemini settings, got key=%q model=%q", cfg.GeminiAPIKey, cfg.ModelName)
	}
	for _, want := range []string{"GEMINI_API_KEY is not set", "MODEL_NAME is not set", "Configuration loaded"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("Expected log to contain %q, got %q", want, logs.String())
		}
	}
}

func TestLoadConfigMistralWarning(t *testing.T) {
	t.Setenv("CAPTION_PROVIDER", ProviderMistral)
	t.Setenv("MISTRAL_API_KEY", "")

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	cfg := LoadConfig()

	if expected, actual := ProviderMistral, cfg.CaptionProvider; expected != actual {
		t.Errorf("Expected provider %q, got %q", expected, actual)
	}
	if !strings.Contains(logs.String(), "MISTRAL_API_KEY is not set") {
		t.Errorf("Expected Mistral key warning, got %q", logs.String())
	}
}
