package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSuggestCmd creates the suggest command
func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a task for the current free slot",
		Long:  "Compute free time until the next event or end of workday and pick the best fitting task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, cleanup, err := newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			reply, isErr := engine.Suggest(ctx)
			fmt.Println(reply)
			if isErr {
				return fmt.Errorf("suggestion failed")
			}
			return nil
		},
	}

	return cmd
}
