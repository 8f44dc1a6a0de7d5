package main

import (
	"os"

	"github.com/clinrag/cds-explainer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
