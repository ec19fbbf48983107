package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskpilot/taskpilot/internal/models"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed sample tasks and calendar events",
		Long:  "Populate the configured storage backend with a sample task list and today's calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, cleanup, err := newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			samples := []struct {
				description string
				priority    int
				minutes     int
			}{
				{"Reply to the design review thread", 1, 20},
				{"Write the weekly status update", 2, 30},
				{"Book a dentist appointment", 3, 10},
				{"Clean up stale feature branches", 4, 45},
			}
			for _, s := range samples {
				if _, err := engine.AddTask(ctx, s.description, s.priority, s.minutes); err != nil {
					return fmt.Errorf("failed to seed task %q: %w", s.description, err)
				}
			}

			now := time.Now()
			day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			events := []models.CalendarEvent{
				{Summary: "Standup", StartTime: day.Add(9*time.Hour + 30*time.Minute), EndTime: day.Add(9*time.Hour + 45*time.Minute)},
				{Summary: "Team sync", StartTime: day.Add(13 * time.Hour), EndTime: day.Add(14 * time.Hour)},
			}
			for _, event := range events {
				if err := engine.AddEvent(ctx, event); err != nil {
					return fmt.Errorf("failed to seed event %q: %w", event.Summary, err)
				}
			}

			fmt.Printf("Seeded %d tasks and %d events.\n", len(samples), len(events))
			return nil
		},
	}

	return cmd
}
