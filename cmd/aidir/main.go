// Command aidir serves and queries the AI platform directory.
package main

import (
	"os"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
