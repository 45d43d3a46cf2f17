package main

import (
	"os"

	"github.com/rustyeddy/fxsession/cmd/fxsession/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
