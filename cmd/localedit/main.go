package main

import (
	"os"

	"github.com/dmitrymomot/localedit/cmd/localedit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
