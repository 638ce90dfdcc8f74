package main

import (
	"os"

	"github.com/rustyeddy/fxdash/cmd/fxdash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
