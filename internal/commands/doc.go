// Package commands provides the command-line interface for the buddy tool.
//
// It implements commands for:
//   - key generation
//   - encryption
//   - decryption
//
// Command-line parsing, environment variable binding and configuration
// validation go through cobra and viper.
package commands
