// Package config holds the runtime configuration of the buddy tool and
// validates it before any file is touched.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config carries all flags and positional arguments of a single run.
type Config struct {
	// Common flags
	Key       string `mapstructure:"key"      validate:"omitempty,hexadecimal"`
	KeyFile   string `mapstructure:"key-file" validate:"excluded_with=Key"`
	Algorithm string `mapstructure:"algorithm" validate:"oneof=aes128-cbc-hmac-sha256 aes192-cbc-hmac-sha384 aes256-cbc-hmac-sha512 aes128-gcm aes192-gcm aes256-gcm"`
	Parallel  int    `mapstructure:"parallel"  validate:"min=1"`

	Quiet              bool   `mapstructure:"quiet"`
	Delete             bool   `mapstructure:"delete"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`
	EncryptSuffix      string `mapstructure:"encrypt-ext"`
	DecryptSuffix      string `mapstructure:"decrypt-ext"`

	// Command-specific flags
	Deterministic bool `mapstructure:"deterministic"`
	Decrypt       bool `mapstructure:"-"`

	// Positional arguments
	Files []string `validate:"min=1"`
}

// Validate checks the configuration against the struct tags plus the
// cross-field key rules the tags cannot express.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	if c.Key == "" && c.KeyFile == "" {
		return errors.New("either --key or --key-file is required")
	}

	if c.Key != "" {
		if _, err := hex.DecodeString(c.Key); err != nil {
			return fmt.Errorf("invalid key format: %w", err)
		}
	}

	return nil
}
