package main

import (
	"os"

	"github.com/harrison/textseek/internal/cmd"
)

func main() {
	// Errors are already reported by the command layer; just set the exit
	// status.
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
