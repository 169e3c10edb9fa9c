package commands

import (
	"github.com/spf13/cobra"
)

// NewEncryptCommand creates the cobra command for the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Args:    cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			return runProcessor(cfg)
		},
	}

	cmd.Flags().Bool("deterministic", false,
		"Use deterministic AES-SIV encryption (64-byte key) instead of a composite scheme")

	return cmd
}
