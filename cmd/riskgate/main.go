package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rustyeddy/riskgate/cmd/riskgate/cmd"
)

func main() {
	// Optional .env for local overrides; absence is not an error.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
