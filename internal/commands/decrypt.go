package commands

import (
	"github.com/spf13/cobra"
)

// NewDecryptCommand creates the cobra command for the decrypt subcommand.
// The scheme is read from each file's envelope, so no algorithm flag is
// needed beyond the shared defaults.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			cfg.Decrypt = true

			return runProcessor(cfg)
		},
	}
}
