package cli

import (
	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/models"
)

// NewStreakCommand creates the streak command.
func NewStreakCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show your task streak and habit streaks",
		Long: `Show your task streak and habit streaks.

The task streak counts consecutive days, ending today, on which everything
due that day was completed. Today only counts once it is complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				taskStreak, err := s.svc.TaskStreak(actor, s.now)
				if err != nil {
					return err
				}
				habits, err := s.svc.HabitStreaks(actor, s.now)
				if err != nil {
					return err
				}
				v := streakView{TaskStreak: taskStreak, Habits: make([]habitView, 0, len(habits))}
				for _, h := range habits {
					v.Habits = append(v.Habits, newHabitView(h))
				}
				return s.out.Success(v)
			})
		},
	}
}
