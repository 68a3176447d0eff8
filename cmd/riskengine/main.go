package main

import (
	"os"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/cmd/riskengine/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
