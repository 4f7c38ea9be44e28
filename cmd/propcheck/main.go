package main

import (
	"os"

	"github.com/rustyeddy/propcheck/cmd/propcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
