package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// NewClassCommand creates the class command group.
func NewClassCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "class",
		Short:   "Create, join and manage classrooms",
		Aliases: []string{"classroom"},
	}
	cmd.AddCommand(newClassCreateCommand(opts))
	cmd.AddCommand(newClassListCommand(opts))
	cmd.AddCommand(newClassJoinCommand(opts))
	cmd.AddCommand(newClassLeaveCommand(opts))
	cmd.AddCommand(newClassKickCommand(opts))
	cmd.AddCommand(newClassRemoveCommand(opts))
	return cmd
}

func newClassCreateCommand(opts *RootOptions) *cobra.Command {
	var c models.Classroom
	cmd := &cobra.Command{
		Use:   "create <name>...",
		Short: "Create a classroom (teachers only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				c.Name = strings.Join(args, " ")
				created, err := s.svc.CreateClassroom(actor, c)
				if err != nil {
					return err
				}
				return s.out.Success(newClassroomView(*created))
			})
		},
	}
	cmd.Flags().StringVar(&c.Subject, "subject", "", "subject taught (default General)")
	cmd.Flags().StringVar(&c.Day, "day", "", "meeting day")
	cmd.Flags().StringVar(&c.Time, "time", "", "meeting time")
	cmd.Flags().StringVar(&c.Room, "room", "", "room")
	return cmd
}

func newClassListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List the classrooms you teach or attend",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				classrooms, err := s.svc.Classrooms(actor)
				if err != nil {
					return err
				}
				l := classroomList{Classrooms: make([]classroomView, 0, len(classrooms))}
				for _, c := range classrooms {
					l.Classrooms = append(l.Classrooms, newClassroomView(c))
				}
				return s.out.Success(l)
			})
		},
	}
}

func newClassJoinCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a classroom with its code (students only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				c, err := s.svc.JoinClassroom(actor, args[0])
				if err != nil {
					return err
				}
				return s.out.Success(newClassroomView(*c))
			})
		},
	}
}

func newClassLeaveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a classroom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				if err := s.svc.LeaveClassroom(actor, id); err != nil {
					return err
				}
				return s.out.Success(result{Message: fmt.Sprintf("Left classroom %d.", id), ID: id})
			})
		},
	}
}

func newClassKickCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kick <id> <student>",
		Short: "Remove a student from a classroom (teacher only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				student, err := s.svc.UserByName(args[1])
				if err != nil {
					return err
				}
				if err := s.svc.RemoveStudent(actor, id, student.ID); err != nil {
					return err
				}
				return s.out.Success(result{Message: fmt.Sprintf("Removed %s from classroom %d.", student.Name, id), ID: id})
			})
		},
	}
}

func newClassRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete a classroom and all of its assignments (teacher only)",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				if err := s.svc.DeleteClassroom(actor, id); err != nil {
					return err
				}
				return s.out.Success(deleted("classroom", id))
			})
		},
	}
}

// NewAssignCommand creates the assign command group.
func NewAssignCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assign",
		Short:   "Manage classroom assignments",
		Aliases: []string{"assignment"},
	}
	cmd.AddCommand(newAssignAddCommand(opts))
	cmd.AddCommand(newAssignListCommand(opts))
	cmd.AddCommand(newAssignDoneCommand(opts))
	cmd.AddCommand(newItemEditCommand(opts, "assignment"))
	cmd.AddCommand(newItemRemoveCommand(opts, "assignment"))
	return cmd
}

func newAssignAddCommand(opts *RootOptions) *cobra.Command {
	flags := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "add <class-id> <title>...",
		Short: "Add an assignment to a classroom (teacher only)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			classroomID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				in := tracker.ItemInput{Title: strings.Join(args[1:], " ")}
				if err := flags.apply(cmd, s, actor, &in); err != nil {
					return err
				}
				it, err := s.svc.CreateAssignment(actor, classroomID, in)
				if err != nil {
					return err
				}
				return s.out.Success(s.itemView(*it, actor.ID))
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newAssignListCommand(opts *RootOptions) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:     "list <class-id>",
		Short:   "List the assignments of a classroom",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classroomID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				filter, order, err := flags.build(s, actor)
				if err != nil {
					return err
				}
				items, err := s.svc.ClassroomView(actor, classroomID, s.now, filter, order)
				if err != nil {
					return err
				}
				return s.out.Success(s.itemList(items, actor.ID))
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newAssignDoneCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle your completion of an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				it, err := s.svc.ToggleAssignment(actor, id)
				if err != nil {
					return err
				}
				return s.out.Success(s.itemView(*it, actor.ID))
			})
		},
	}
}
