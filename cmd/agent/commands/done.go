package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewDoneCmd creates the done command
func NewDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			engine, cleanup, err := newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			reply, isErr := engine.CompleteTask(ctx, id)
			fmt.Println(reply)
			if isErr {
				return fmt.Errorf("task was not completed")
			}
			return nil
		},
	}

	return cmd
}
