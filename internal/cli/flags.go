package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// itemFlags are the descriptive fields accepted by add and edit commands.
type itemFlags struct {
	Title       string
	Description string
	Due         string
	Priority    string
	Subject     string
}

func (f *itemFlags) register(cmd *cobra.Command, withSubject bool) {
	cmd.Flags().StringVarP(&f.Description, "desc", "d", "", "description")
	cmd.Flags().StringVar(&f.Due, "due", "", "due date (YYYY-MM-DD, or none)")
	cmd.Flags().StringVarP(&f.Priority, "priority", "p", "", "priority (low|medium|high)")
	if withSubject {
		cmd.Flags().StringVarP(&f.Subject, "subject", "s", "", "subject name (or none)")
	}
}

// apply overlays the flags the user set onto in
func (f *itemFlags) apply(cmd *cobra.Command, s *session, actor models.Actor, in *tracker.ItemInput) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = f.Title
	}
	if changed("desc") {
		in.Description = f.Description
	}
	if changed("due") {
		due, err := parseDue(s, f.Due)
		if err != nil {
			return err
		}
		in.DueDate = due
	}
	if changed("priority") {
		p, err := models.ParsePriority(f.Priority)
		if err != nil {
			return engine.NewValidationError("%v", err)
		}
		in.Priority = p
	}
	if cmd.Flags().Lookup("subject") != nil && changed("subject") {
		if f.Subject == "" || strings.EqualFold(f.Subject, "none") {
			in.SubjectID = nil
		} else {
			subject, err := s.svc.SubjectByName(actor, f.Subject)
			if err != nil {
				return err
			}
			in.SubjectID = &subject.ID
		}
	}
	return nil
}

func parseDue(s *session, v string) (*time.Time, error) {
	if v == "" || strings.EqualFold(v, "none") {
		return nil, nil
	}
	t, err := s.svc.Engine().Days().ParseDate(v)
	if err != nil {
		return nil, engine.NewValidationError("invalid due date %q: want YYYY-MM-DD", v)
	}
	return &t, nil
}

// inputOf returns the editable fields of an existing item
func inputOf(it models.Item) tracker.ItemInput {
	return tracker.ItemInput{
		Title:       it.Title,
		Description: it.Description,
		SubjectID:   it.SubjectID,
		DueDate:     it.DueDate,
		Priority:    it.Priority,
	}
}

// listFlags narrow and order list output.
type listFlags struct {
	Status       string
	Subject      string
	Priority     string
	Kind         string
	Search       string
	SortPriority string
	SortDue      string
}

func (f *listFlags) register(cmd *cobra.Command, withKind bool) {
	cmd.Flags().StringVar(&f.Status, "status", "all", "status filter (all|pending|overdue|completed)")
	cmd.Flags().StringVarP(&f.Subject, "subject", "s", "", "only items of this subject")
	cmd.Flags().StringVarP(&f.Priority, "priority", "p", "", "only items of this priority")
	cmd.Flags().StringVarP(&f.Search, "search", "q", "", "case-insensitive text search")
	cmd.Flags().StringVar(&f.SortPriority, "sort-priority", "off", "sort by priority (asc|desc|off)")
	cmd.Flags().StringVar(&f.SortDue, "sort-due", "off", "sort by due date (asc|desc|off)")
	if withKind {
		cmd.Flags().StringVar(&f.Kind, "kind", "", "only tasks or assignments (task|assignment)")
	}
}

func (f *listFlags) build(s *session, actor models.Actor) (engine.Filter, engine.Sort, error) {
	var (
		filter engine.Filter
		order  engine.Sort
		err    error
	)
	if filter.Status, err = engine.ParseStatusFilter(f.Status); err != nil {
		return filter, order, engine.NewValidationError("%v", err)
	}
	if f.Priority != "" {
		if filter.Priority, err = models.ParsePriority(f.Priority); err != nil {
			return filter, order, engine.NewValidationError("%v", err)
		}
	}
	if f.Kind != "" {
		filter.Kind = models.Kind(strings.ToLower(f.Kind))
		if !filter.Kind.Valid() {
			return filter, order, engine.NewValidationError("invalid kind %q", f.Kind)
		}
	}
	if f.Subject != "" {
		subject, err := s.svc.SubjectByName(actor, f.Subject)
		if err != nil {
			return filter, order, err
		}
		filter.SubjectID = &subject.ID
	}
	filter.Search = f.Search

	if order.Priority, err = engine.ParseSortDir(f.SortPriority); err != nil {
		return filter, order, engine.NewValidationError("%v", err)
	}
	if order.Due, err = engine.ParseSortDir(f.SortDue); err != nil {
		return filter, order, engine.NewValidationError("%v", err)
	}
	return filter, order, nil
}

func deleted(what string, id int64) result {
	return result{Message: fmt.Sprintf("Deleted %s %d.", what, id), ID: id}
}
