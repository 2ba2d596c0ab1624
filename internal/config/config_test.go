package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"FLOURISH_ADDR", "FLOURISH_COMMIT", "FLOURISH_BUILD_TIME", "FLOURISH_CATALOG_DIR",
		"FLOURISH_RESOURCE_LIMIT", "FLOURISH_ALLOW_EXTERNAL", "FLOURISH_OPENAI_KEY", "OPENAI_API_KEY",
		"FLOURISH_OPENAI_BASE", "FLOURISH_OPENAI_MODEL", "FLOURISH_NARRATIVE_TIMEOUT",
		"FLOURISH_LOG_LEVEL", "FLOURISH_LOG_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 4, cfg.ResourceLimit)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.NarrativeTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NarrativeEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLOURISH_ADDR", ":9090")
	t.Setenv("FLOURISH_RESOURCE_LIMIT", "6")
	t.Setenv("FLOURISH_ALLOW_EXTERNAL", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FLOURISH_NARRATIVE_TIMEOUT", "5s")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 6, cfg.ResourceLimit)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, 5*time.Second, cfg.NarrativeTimeout)
	assert.True(t, cfg.NarrativeEnabled())
}

func TestNarrativeNeedsBothFlags(t *testing.T) {
	assert.False(t, Config{OpenAIKey: "k"}.NarrativeEnabled())
	assert.False(t, Config{AllowExternal: true}.NarrativeEnabled())
}
