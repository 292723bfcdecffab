package main

import (
	"os"

	"github.com/depot-sh/depot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
