package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/studyhub/internal/models"
)

// Status is the derived completion state of an item at an instant.
type Status int

const (
	StatusPending Status = iota
	StatusOverdue
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusOverdue:
		return "Overdue"
	case StatusCompleted:
		return "Completed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus accepts Pending, Overdue (or missed) and Completed in any case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "overdue", "missed":
		return StatusOverdue, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return 0, fmt.Errorf("invalid status %q", s)
}

// Classify decides the status of it at now. viewer is the participant whose
// completion counts for assignments and is ignored for other kinds.
//
// Time of day never matters: an item due today that is not done is Pending,
// it becomes Overdue only once its due day has passed.
func (e *Engine) Classify(it models.Item, viewer int64, now time.Time) Status {
	if e.IsDone(it, viewer, now) {
		return StatusCompleted
	}
	if it.DueDate == nil {
		return StatusPending
	}
	if e.days.Key(*it.DueDate).Before(e.days.Key(now)) {
		return StatusOverdue
	}
	return StatusPending
}

// IsDone reports the done flag of it as seen by viewer at now. A habit is
// done when today is in its history.
func (e *Engine) IsDone(it models.Item, viewer int64, now time.Time) bool {
	switch it.Kind {
	case models.KindTask:
		return it.Task != nil && it.Task.Done
	case models.KindHabit:
		return it.Habit != nil && it.Habit.Has(e.days.Key(now))
	case models.KindAssignment:
		return it.Assignment != nil && it.Assignment.Has(viewer)
	}
	return false
}
