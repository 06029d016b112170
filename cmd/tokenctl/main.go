package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskloop/taskloop/cmd/tokenctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "tokenctl",
		Short: "Token tool for the Taskloop API",
		Long:  "CLI tool for issuing and checking Taskloop bearer tokens with the configured secret",
	}

	rootCmd.AddCommand(commands.NewIssueCmd())
	rootCmd.AddCommand(commands.NewInspectCmd())
	rootCmd.AddCommand(commands.NewVerifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
