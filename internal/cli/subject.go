package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/models"
)

// NewSubjectCommand creates the subject command group.
func NewSubjectCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects for categorizing tasks",
	}
	cmd.AddCommand(newSubjectAddCommand(opts))
	cmd.AddCommand(newSubjectListCommand(opts))
	cmd.AddCommand(newSubjectRemoveCommand(opts))
	return cmd
}

func newSubjectAddCommand(opts *RootOptions) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				subject, err := s.svc.CreateSubject(actor, args[0], color)
				if err != nil {
					return err
				}
				return s.out.Success(subjectView{ID: subject.ID, Name: subject.Name, Color: subject.Color})
			})
		},
	}
	cmd.Flags().StringVarP(&color, "color", "c", "", "display color as #rrggbb")
	return cmd
}

func newSubjectListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List your subjects",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				subjects, err := s.svc.Subjects(actor)
				if err != nil {
					return err
				}
				l := subjectList{Subjects: make([]subjectView, 0, len(subjects))}
				for _, subject := range subjects {
					l.Subjects = append(l.Subjects, subjectView{ID: subject.ID, Name: subject.Name, Color: subject.Color})
				}
				return s.out.Success(l)
			})
		},
	}
}

func newSubjectRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Short:   "Delete a subject; its tasks become uncategorized",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				subject, err := s.svc.SubjectByName(actor, args[0])
				if err != nil {
					return err
				}
				if err := s.svc.DeleteSubject(actor, subject.ID); err != nil {
					return err
				}
				return s.out.Success(deleted("subject", subject.ID))
			})
		},
	}
}

// NewCommentCommand creates the comment command group.
func NewCommentCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Leave notes on tasks and assignments",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <item-id> <text>...",
		Short: "Comment on an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				c, err := s.svc.AddComment(actor, id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				return s.out.Success(commentView{ID: c.ID, Author: s.authorName(c.AuthorID), Content: c.Content})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "list <item-id>",
		Short:   "List the comments on an item",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withActor(cmd, func(s *session, actor models.Actor) error {
				comments, err := s.svc.Comments(actor, id)
				if err != nil {
					return err
				}
				l := commentList{Comments: make([]commentView, 0, len(comments))}
				for _, c := range comments {
					l.Comments = append(l.Comments, commentView{ID: c.ID, Author: s.authorName(c.AuthorID), Content: c.Content})
				}
				return s.out.Success(l)
			})
		},
	})
	return cmd
}

func (s *session) authorName(id int64) string {
	u, err := s.svc.User(id)
	if err != nil {
		return "unknown"
	}
	return u.Name
}
