package main

import (
	"os"

	"github.com/abhisek/statsheet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
