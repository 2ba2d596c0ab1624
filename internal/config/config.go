// Package config reads process settings from FLOURISH_* environment variables.
package config

import (
	"time"

	"github.com/soaringjerry/Flourish/internal/utils"
)

type Config struct {
	Addr      string
	Commit    string
	BuildTime string

	CatalogDir    string
	ResourceLimit int

	// Narrative generation is off unless AllowExternal is set and a key is present.
	AllowExternal    bool
	OpenAIKey        string
	OpenAIBase       string
	OpenAIModel      string
	NarrativeTimeout time.Duration

	LogLevel string
	LogPath  string
}

func Load() Config {
	return Config{
		Addr:             utils.SafeEnv("FLOURISH_ADDR", ":8080"),
		Commit:           utils.SafeEnv("FLOURISH_COMMIT", ""),
		BuildTime:        utils.SafeEnv("FLOURISH_BUILD_TIME", ""),
		CatalogDir:       utils.SafeEnv("FLOURISH_CATALOG_DIR", ""),
		ResourceLimit:    utils.SafeEnvInt("FLOURISH_RESOURCE_LIMIT", 4),
		AllowExternal:    utils.SafeEnvBool("FLOURISH_ALLOW_EXTERNAL", false),
		OpenAIKey:        utils.SafeEnv("FLOURISH_OPENAI_KEY", utils.SafeEnv("OPENAI_API_KEY", "")),
		OpenAIBase:       utils.SafeEnv("FLOURISH_OPENAI_BASE", ""),
		OpenAIModel:      utils.SafeEnv("FLOURISH_OPENAI_MODEL", "gpt-4o-mini"),
		NarrativeTimeout: utils.SafeEnvDuration("FLOURISH_NARRATIVE_TIMEOUT", 30*time.Second),
		LogLevel:         utils.SafeEnv("FLOURISH_LOG_LEVEL", "info"),
		LogPath:          utils.SafeEnv("FLOURISH_LOG_PATH", ""),
	}
}

// NarrativeEnabled reports whether reports may call the external generator.
func (c Config) NarrativeEnabled() bool {
	return c.AllowExternal && c.OpenAIKey != ""
}
