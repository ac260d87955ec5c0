// Package main is the entry point for the tern CLI.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/aidanlsb/tern/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
