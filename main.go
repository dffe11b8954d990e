package main

import (
	"os"

	"github.com/hireflow/hireflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
