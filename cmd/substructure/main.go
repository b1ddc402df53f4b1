package main

import (
	"os"

	cmd "github.com/hybridsim/substructure/cmd/substructure/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
