package main

import (
	"os"

	"github.com/rustyeddy/orb/cmd/orb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
