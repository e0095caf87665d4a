package main

import (
	"os"

	"github.com/docmon-labs/docmon-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
