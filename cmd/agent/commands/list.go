package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskpilot/taskpilot/internal/scheduler"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks",
		Long:  "List pending tasks in priority order, including their IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, cleanup, err := newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks := engine.Tasks()
			if !showAll {
				tasks = scheduler.SortForListing(tasks)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}

			for _, task := range tasks {
				marker := " "
				if task.Completed {
					marker = "x"
				}
				fmt.Printf("[%s] %s  %s\n", marker, task.ID, task.Label())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Include completed tasks, in the order they were added")
	return cmd
}
