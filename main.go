package main

import (
	"os"

	"github.com/smohan/deckard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
