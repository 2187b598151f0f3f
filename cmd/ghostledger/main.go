package main

import (
	"os"

	"github.com/ghostledger/ghostledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
