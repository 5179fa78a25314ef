package main

import (
	"os"

	"github.com/interfase/vp-verifier/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
