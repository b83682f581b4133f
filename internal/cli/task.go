package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// NewTaskCommand creates the task command group.
func NewTaskCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage personal tasks",
	}
	cmd.AddCommand(newTaskAddCommand(opts))
	cmd.AddCommand(newTaskListCommand(opts))
	cmd.AddCommand(newTaskDoneCommand(opts))
	cmd.AddCommand(newItemEditCommand(opts, "task"))
	cmd.AddCommand(newItemRemoveCommand(opts, "task"))
	return cmd
}

func newTaskAddCommand(opts *RootOptions) *cobra.Command {
	flags := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a task",
		Example: `  studyhub task add Read chapter 3 --due 2026-10-20 --priority high --subject Biology`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				in := tracker.ItemInput{Title: strings.Join(args, " ")}
				if err := flags.apply(cmd, s, actor, &in); err != nil {
					return err
				}
				it, err := s.svc.CreateTask(actor, in)
				if err != nil {
					return err
				}
				return s.out.Success(s.itemView(*it, actor.ID))
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newTaskListCommand(opts *RootOptions) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks and assignments",
		Long: `List personal tasks followed by the assignments of your classrooms.

Assignments are shown as completed once you have marked your own part done.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				return printWorkload(s, actor, flags)
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func printWorkload(s *session, actor models.Actor, flags *listFlags) error {
	filter, order, err := flags.build(s, actor)
	if err != nil {
		return err
	}
	items, err := s.svc.ListView(actor, s.now, filter, order)
	if err != nil {
		return err
	}
	return s.out.Success(s.itemList(items, actor.ID))
}

func newTaskDoneCommand(opts *RootOptions) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				it, err := s.svc.SetTaskDone(actor, id, !undo)
				if err != nil {
					return err
				}
				return s.out.Success(s.itemView(*it, actor.ID))
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task not done instead")
	return cmd
}

// newItemEditCommand edits the fields of a task or an assignment
func newItemEditCommand(opts *RootOptions, what string) *cobra.Command {
	flags := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, description, due date or priority of a " + what,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				it, err := s.svc.Item(actor, id)
				if err != nil {
					return err
				}
				in := inputOf(*it)
				if err := flags.apply(cmd, s, actor, &in); err != nil {
					return err
				}
				updated, err := s.svc.UpdateItem(actor, id, in)
				if err != nil {
					return err
				}
				return s.out.Success(s.itemView(*updated, actor.ID))
			})
		},
	}
	cmd.Flags().StringVarP(&flags.Title, "title", "t", "", "new title")
	flags.register(cmd, what == "task")
	return cmd
}

func newItemRemoveCommand(opts *RootOptions, what string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete a " + what,
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				if err := s.svc.DeleteItem(actor, id); err != nil {
					return err
				}
				return s.out.Success(deleted(what, id))
			})
		},
	}
}
