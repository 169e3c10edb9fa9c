package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RokLenarcic/buddy-core/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Key:       "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff",
		Algorithm: "aes128-cbc-hmac-sha256",
		Parallel:  4,
		Files:     []string{"a.txt"},
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())
}

func TestConfigValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing key and key file", func(c *config.Config) { c.Key = "" }},
		{"key and key file together", func(c *config.Config) { c.KeyFile = "key.txt" }},
		{"non-hex key", func(c *config.Config) { c.Key = "not-hex" }},
		{"unknown algorithm", func(c *config.Config) { c.Algorithm = "rot13" }},
		{"zero workers", func(c *config.Config) { c.Parallel = 0 }},
		{"no files", func(c *config.Config) { c.Files = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidateAcceptsKeyFileAlone(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Key = ""
	cfg.KeyFile = "key.txt"

	assert.NoError(t, cfg.Validate())
}
