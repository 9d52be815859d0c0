package main

import (
	"os"

	"github.com/sitescout/sitescout/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
