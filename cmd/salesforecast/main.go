package main

import (
	"os"

	"github.com/electrotech/salesforecaster/cmd/salesforecast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
