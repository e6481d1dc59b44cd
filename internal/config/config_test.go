package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("QDRANT_URL", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("ALLOWED_FILE_EXTENSIONS", "")

	cfg := Load()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, cfg.Storage.AllowedExtensions)
	assert.False(t, cfg.Qdrant.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "90")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("AI_REQUESTS_PER_SECOND", "0.5")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("QDRANT_URL", "http://localhost:6334")

	cfg := Load()

	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 0.5, cfg.AI.RequestsPerSecond)
	assert.Equal(t, int64(2048), cfg.Storage.MaxFileSize)
	assert.True(t, cfg.Qdrant.Enabled())
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_EXTENSIONS", " PDF, .Docx ,,txt ")
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, getEnvAsList("TEST_EXTENSIONS", ""))

	t.Setenv("TEST_EXTENSIONS", "")
	assert.Equal(t, []string{".md"}, getEnvAsList("TEST_EXTENSIONS", "md"))
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("TEST_INT", "ten")
	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
}
