package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskpilot/taskpilot/internal/agent"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	var debugMode bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the task agent",
		Long:  "Interactive loop that reads messages from stdin and prints agent replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, cleanup, err := newEngine(ctx, debugMode)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println("Type a message, or 'quit' to exit.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					break
				}

				reply, _ := engine.HandleMessage(ctx, line)
				fmt.Println(reply)

				if reply == agent.GoodbyeResponse {
					break
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging for classifier calls")
	return cmd
}
