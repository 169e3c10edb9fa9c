package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/RokLenarcic/buddy-core/internal/config"
	"github.com/RokLenarcic/buddy-core/internal/encryption"
	"github.com/RokLenarcic/buddy-core/pkg/crypto"
)

// NewRootCommand creates the root command with the flags shared by every
// subcommand.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "buddy [flags] command [flags]"
	root.Short = "File encryption utility"
	root.Long = `A file encryption utility built on composite authenticated encryption:
AES-CBC with a truncated HMAC tag, AES-GCM, or deterministic AES-SIV.
Provides commands for key generation, encryption, and decryption.`

	root.PersistentFlags().StringP("key", "k", "", "Encryption key, hex-encoded")
	root.PersistentFlags().
		StringP("key-file", "f", "", "Path to a file holding the hex-encoded encryption key")
	root.PersistentFlags().StringP("algorithm", "a", crypto.AES128CBCHMACSHA256.String(),
		fmt.Sprintf("Composite scheme to use %v", algorithmNames()))
	root.PersistentFlags().
		IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().
		BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	root.PersistentFlags().Bool("preserve-timestamps", false, "Carry the source timestamps over to the output")
	root.PersistentFlags().String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	root.PersistentFlags().
		String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewGenerateCommand())

	return root
}

// Execute builds the root command and runs it.
func Execute(version string) error {
	return NewRootCommand(version).Execute() //nolint:wrapcheck
}

// algorithmNames lists the textual identifiers for the flag help.
func algorithmNames() []string {
	names := make([]string, 0, len(crypto.Algorithms()))
	for _, alg := range crypto.Algorithms() {
		names = append(names, alg.String())
	}

	return names
}

// bindFlags wires the command's own and inherited flags into viper so the
// configuration can be unmarshalled from flags and environment alike.
func bindFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return fmt.Errorf("binding inherited flags: %w", err)
	}

	return nil
}

// loadConfig unmarshals the bound configuration and applies the
// positional arguments.
func loadConfig(args []string) (config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Files = args

	return cfg, nil
}

// runProcessor validates the configuration and processes all files.
func runProcessor(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	processor, err := encryption.NewProcessor(&cfg)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	_, errored, _, err := processor.ProcessFiles()
	if err != nil {
		return err
	}

	if errored > 0 {
		return fmt.Errorf("%d file(s) failed", errored)
	}

	return nil
}
