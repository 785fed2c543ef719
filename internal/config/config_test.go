package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "jwt", cfg.Auth.Mode)
	assert.Equal(t, 300, cfg.Auth.CacheTTLInSec)
	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, "EMBED_MESSAGE_CONTENT", cfg.Ai.EmbedTopic)
	assert.Equal(t, "https://api.sarvam.ai", cfg.Speech.SarvamBaseURL)
	assert.Equal(t, "saarika:v2", cfg.Speech.STTModel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("AUTH_MODE", "remote")
	t.Setenv("AUTH_PROVIDER_URL", "https://auth.example.com")
	t.Setenv("AUTH_CACHE_TTL_SECONDS", "60")
	t.Setenv("LLM_PROVIDER", "huggingface")
	t.Setenv("SARVAM_API_KEY", "sk-test")

	cfg := Load()

	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, "remote", cfg.Auth.Mode)
	assert.Equal(t, "https://auth.example.com", cfg.Auth.ProviderURL)
	assert.Equal(t, 60, cfg.Auth.CacheTTLInSec)
	assert.Equal(t, "huggingface", cfg.Ai.LLMProvider)
	assert.Equal(t, "sk-test", cfg.Speech.SarvamAPIKey)
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_CACHE_TTL_SECONDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 300, cfg.Auth.CacheTTLInSec)
}
