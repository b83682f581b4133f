package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

// ItemInput carries the descriptive fields of an item. Completion state is
// never set through it.
type ItemInput struct {
	Title       string
	Description string
	SubjectID   *int64
	DueDate     *time.Time
	Priority    models.Priority // zero means medium
}

// CreateTask adds a personal task owned by actor.
func (s *Service) CreateTask(actor models.Actor, in ItemInput) (*models.Item, error) {
	return s.createPersonal(actor, models.KindTask, in)
}

// CreateHabit adds a habit owned by actor.
func (s *Service) CreateHabit(actor models.Actor, in ItemInput) (*models.Item, error) {
	return s.createPersonal(actor, models.KindHabit, in)
}

func (s *Service) createPersonal(actor models.Actor, kind models.Kind, in ItemInput) (*models.Item, error) {
	it := models.NewItem(kind, actor.ID, "")
	if err := s.applyInput(actor, &it, in); err != nil {
		return nil, err
	}

	created, err := s.db.CreateItem(it)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	s.mutated("create_"+string(kind), actor, created.ID)
	return created, nil
}

// CreateAssignment adds a shared assignment to a classroom the actor teaches.
func (s *Service) CreateAssignment(actor models.Actor, classroomID int64, in ItemInput) (*models.Item, error) {
	c, err := s.visibleClassroom(actor, classroomID)
	if err != nil {
		return nil, err
	}
	if !engine.CanModify(*c, actor) {
		return nil, engine.NewAuthorizationError(classroomID, "only the classroom teacher can add assignments")
	}
	if in.SubjectID != nil {
		return nil, engine.NewValidationError("assignments cannot have a personal subject")
	}

	it := models.NewItem(models.KindAssignment, actor.ID, "")
	it.Assignment.ClassroomID = classroomID
	if err := s.applyInput(actor, &it, in); err != nil {
		return nil, err
	}

	created, err := s.db.CreateItem(it)
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	if err := s.db.TouchClassroom(classroomID); err != nil {
		return nil, err
	}
	s.mutated("create_assignment", actor, created.ID, "classroom", classroomID)
	return created, nil
}

// applyInput validates in and copies it onto it
func (s *Service) applyInput(actor models.Actor, it *models.Item, in ItemInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return engine.NewValidationError("title is required")
	}
	priority := in.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}
	if priority < models.PriorityLow || priority > models.PriorityHigh {
		return engine.NewValidationError("invalid priority %d", int(priority))
	}
	if in.SubjectID != nil {
		subject, err := s.db.GetSubject(*in.SubjectID)
		if err != nil || subject.OwnerID != actor.ID {
			return engine.NewValidationError("unknown subject %d", *in.SubjectID)
		}
	}

	it.Title = title
	it.Description = strings.TrimSpace(in.Description)
	it.SubjectID = in.SubjectID
	it.DueDate = in.DueDate
	it.Priority = priority
	return nil
}

// Item returns an item the actor may see. Personal items are visible to
// their owner; assignments to the classroom teacher and enrolled students.
// Anything else is reported as not found.
func (s *Service) Item(actor models.Actor, id int64) (*models.Item, error) {
	it, _, err := s.visibleItem(actor, id)
	return it, err
}

// visibleItem loads an item and, for assignments, its classroom
func (s *Service) visibleItem(actor models.Actor, id int64) (*models.Item, *models.Classroom, error) {
	it, err := s.db.GetItem(id)
	if err != nil {
		return nil, nil, notFound(err, "item", id)
	}
	if it.Kind != models.KindAssignment {
		if it.OwnerID != actor.ID {
			return nil, nil, engine.NewNotFoundError("item", id)
		}
		return it, nil, nil
	}

	c, err := s.visibleClassroom(actor, it.Assignment.ClassroomID)
	if err != nil {
		return nil, nil, engine.NewNotFoundError("item", id)
	}
	return it, c, nil
}

// editable loads an item the actor may change the fields of
func (s *Service) editable(actor models.Actor, id int64) (*models.Item, error) {
	it, c, err := s.visibleItem(actor, id)
	if err != nil {
		return nil, err
	}
	if c != nil && !engine.CanModify(*c, actor) {
		return nil, engine.NewAuthorizationError(id, "only the classroom teacher can change assignments")
	}
	return it, nil
}

// UpdateItem replaces the descriptive fields of an item.
func (s *Service) UpdateItem(actor models.Actor, id int64, in ItemInput) (*models.Item, error) {
	it, err := s.editable(actor, id)
	if err != nil {
		return nil, err
	}
	if it.Kind == models.KindAssignment && in.SubjectID != nil {
		return nil, engine.NewValidationError("assignments cannot have a personal subject")
	}
	if err := s.applyInput(actor, it, in); err != nil {
		return nil, err
	}
	if err := s.db.UpdateItem(*it); err != nil {
		return nil, notFound(err, "item", id)
	}
	s.mutated("update_item", actor, id)
	return s.Item(actor, id)
}

// DeleteItem removes an item with its history, completions and comments.
func (s *Service) DeleteItem(actor models.Actor, id int64) error {
	if _, err := s.editable(actor, id); err != nil {
		return err
	}
	if err := s.db.DeleteItem(id); err != nil {
		return notFound(err, "item", id)
	}
	s.mutated("delete_item", actor, id)
	return nil
}

// SetTaskDone marks a personal task done or not done. Setting the state it
// already has is a no-op.
func (s *Service) SetTaskDone(actor models.Actor, id int64, done bool) (*models.Item, error) {
	return s.mutateOwned(actor, id, "set_task_done", func(it models.Item) (models.Item, error) {
		if it.Kind != models.KindTask || it.Task == nil {
			return it, engine.NewValidationError("item %d is not a task", id)
		}
		it.Task.Done = done
		return it, nil
	})
}

// ToggleTask flips a personal task between done and not done.
func (s *Service) ToggleTask(actor models.Actor, id int64) (*models.Item, error) {
	return s.mutateOwned(actor, id, "toggle_task", func(it models.Item) (models.Item, error) {
		if it.Kind != models.KindTask || it.Task == nil {
			return it, engine.NewValidationError("item %d is not a task", id)
		}
		it.Task.Done = !it.Task.Done
		return it, nil
	})
}

// CompleteHabit records today's completion of a habit. Completing twice on
// one day fails with ALREADY_COMPLETED.
func (s *Service) CompleteHabit(actor models.Actor, id int64, now time.Time) (*models.Item, error) {
	return s.mutateOwned(actor, id, "complete_habit", func(it models.Item) (models.Item, error) {
		return s.engine.CompleteHabit(it, now)
	})
}

// UncompleteHabit removes today's completion of a habit.
func (s *Service) UncompleteHabit(actor models.Actor, id int64, now time.Time) (*models.Item, error) {
	return s.mutateOwned(actor, id, "uncomplete_habit", func(it models.Item) (models.Item, error) {
		return s.engine.UncompleteHabit(it, now)
	})
}

// ToggleHabit completes today if it is not completed yet, otherwise
// un-marks it.
func (s *Service) ToggleHabit(actor models.Actor, id int64, now time.Time) (*models.Item, error) {
	return s.mutateOwned(actor, id, "toggle_habit", func(it models.Item) (models.Item, error) {
		if it.Habit == nil {
			return it, engine.NewValidationError("item %d is not a habit", id)
		}
		return s.engine.SetHabitDone(it, now, !it.Habit.Has(s.engine.Days().Key(now)))
	})
}

// mutateOwned runs fn on a personal item of actor inside one transaction
func (s *Service) mutateOwned(actor models.Actor, id int64, op string, fn func(models.Item) (models.Item, error)) (*models.Item, error) {
	out, err := s.db.MutateItem(id, func(it models.Item) (models.Item, error) {
		if it.Kind == models.KindAssignment || it.OwnerID != actor.ID {
			return it, engine.NewNotFoundError("item", id)
		}
		return fn(it)
	})
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	s.mutated(op, actor, id)
	return out, nil
}

// ToggleAssignment flips the actor's own completion of an assignment.
func (s *Service) ToggleAssignment(actor models.Actor, id int64) (*models.Item, error) {
	it, c, err := s.visibleItem(actor, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, engine.NewValidationError("item %d is not an assignment", it.ID)
	}

	// Enrollment is checked against the classroom as the write transaction
	// sees it, not the copy loaded for visibility.
	out, err := s.db.MutateAssignment(id, func(it models.Item, current models.Classroom) (models.Item, error) {
		return engine.ToggleAssignment(it, current, actor, actor.ID)
	})
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	s.mutated("toggle_assignment", actor, id, "completed", out.Assignment.Has(actor.ID))
	return out, nil
}
