// Command buddy encrypts and decrypts files with composite authenticated
// encryption schemes.
package main

import (
	"os"

	"github.com/RokLenarcic/buddy-core/internal/commands"
)

// version is set at build time.
var version = "dev" //nolint:gochecknoglobals

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
