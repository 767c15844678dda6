package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "https://api.jsonbin.io/v3/b", cfg.RemoteBaseURL)
	assert.Empty(t, cfg.RemoteBinID, "bin credentials have no default")
	assert.Empty(t, cfg.RemoteAPIKey)
	assert.True(t, cfg.FallbackEnabled, "fallback mode is the documented default")
	assert.Equal(t, "data/rsvps.db", cfg.LocalStorePath)
	assert.Equal(t, "https://api.emailjs.com", cfg.EmailBaseURL)
	assert.Equal(t, "1347871041", cfg.AdminPasswordHash)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PARTY_BIN_ID", "bin-42")
	t.Setenv("PARTY_BIN_API_KEY", "  secret  ")
	t.Setenv("PARTY_FALLBACK_ENABLED", "false")
	t.Setenv("PARTY_DATE", "October 31st, 2026")

	cfg := LoadConfig()

	assert.Equal(t, "bin-42", cfg.RemoteBinID)
	assert.Equal(t, "secret", cfg.RemoteAPIKey, "env values are trimmed")
	assert.False(t, cfg.FallbackEnabled)
	assert.Equal(t, "October 31st, 2026", cfg.PartyDate)
}

func TestLoadConfig_InvalidBoolFallsBackToDefault(t *testing.T) {
	t.Setenv("PARTY_FALLBACK_ENABLED", "maybe")

	cfg := LoadConfig()
	assert.True(t, cfg.FallbackEnabled)
}
