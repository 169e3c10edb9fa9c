package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RokLenarcic/buddy-core/internal/encryption"
	"github.com/RokLenarcic/buddy-core/pkg/crypto"
	"github.com/RokLenarcic/buddy-core/pkg/nonce"
)

// NewGenerateCommand creates the cobra command for generating a fresh,
// correctly sized key for the selected scheme.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new encryption key sized for the selected algorithm",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			size := encryption.DeterministicKeySize

			if !viper.GetBool("deterministic") {
				algorithm, err := crypto.ParseAlgorithm(viper.GetString("algorithm"))
				if err != nil {
					return fmt.Errorf("parsing algorithm: %w", err)
				}

				size = algorithm.KeySize()
			}

			key, err := nonce.RandomBytes(size)
			if err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Println(hex.EncodeToString(key)) //nolint:forbidigo

			return nil
		},
	}

	cmd.Flags().Bool("deterministic", false, "Generate a 64-byte key for deterministic AES-SIV mode")

	return cmd
}
