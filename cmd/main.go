package main

import (
	"os"

	"quiz-roulette/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
