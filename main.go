package main

import (
	"os"

	"github.com/abhisek/fjala/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
