package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskpilot/taskpilot/cmd/agent/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "taskpilot",
		Short: "Conversational task manager",
		Long:  "CLI for chatting with the task agent, managing tasks, and getting suggestions",
	}

	rootCmd.AddCommand(commands.NewChatCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewDoneCmd())
	rootCmd.AddCommand(commands.NewSuggestCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
