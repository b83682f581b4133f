package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// NewHabitCommand creates the habit command group.
func NewHabitCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track daily habits",
	}
	cmd.AddCommand(newHabitAddCommand(opts))
	cmd.AddCommand(newHabitListCommand(opts))
	cmd.AddCommand(newHabitMarkCommand(opts, true))
	cmd.AddCommand(newHabitMarkCommand(opts, false))
	cmd.AddCommand(newItemRemoveCommand(opts, "habit"))
	return cmd
}

func newHabitAddCommand(opts *RootOptions) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				it, err := s.svc.CreateHabit(actor, tracker.ItemInput{
					Title:       strings.Join(args, " "),
					Description: description,
				})
				if err != nil {
					return err
				}
				return s.out.Success(s.itemView(*it, actor.ID))
			})
		},
	}
	cmd.Flags().StringVarP(&description, "desc", "d", "", "description")
	return cmd
}

func newHabitListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List habits with their current streaks",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				habits, err := s.svc.HabitStreaks(actor, s.now)
				if err != nil {
					return err
				}
				l := habitList{Habits: make([]habitView, 0, len(habits))}
				for _, h := range habits {
					l.Habits = append(l.Habits, newHabitView(h))
				}
				return s.out.Success(l)
			})
		},
	}
}

// newHabitMarkCommand is "done" when complete is set and "undo" otherwise
func newHabitMarkCommand(opts *RootOptions, complete bool) *cobra.Command {
	use, short := "done <id>", "Complete a habit for today"
	if !complete {
		use, short = "undo <id>", "Take back today's completion of a habit"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				var (
					it  *models.Item
					err error
				)
				if complete {
					it, err = s.svc.CompleteHabit(actor, id, s.now)
				} else {
					it, err = s.svc.UncompleteHabit(actor, id, s.now)
				}
				if err != nil {
					return err
				}
				return s.out.Success(habitView{
					ID:        it.ID,
					Title:     it.Title,
					Streak:    s.svc.Engine().LiveStreak(*it, s.now),
					DoneToday: complete,
				})
			})
		},
	}
}
