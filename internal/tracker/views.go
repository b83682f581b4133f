package tracker

import (
	"time"

	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

// Workload returns the actor's personal tasks followed by the assignments of
// every classroom they attend or teach, in creation order.
func (s *Service) Workload(actor models.Actor) ([]models.Item, error) {
	tasks, err := s.db.ListItemsByOwner(actor.ID, models.KindTask)
	if err != nil {
		return nil, err
	}

	var assignments []models.Item
	if actor.Role == models.RoleTeacher {
		assignments, err = s.db.ListAssignmentsForTeacher(actor.ID)
	} else {
		assignments, err = s.db.ListAssignmentsForStudent(actor.ID)
	}
	if err != nil {
		return nil, err
	}
	return append(tasks, assignments...), nil
}

// ListView is the actor's workload narrowed and ordered for display.
func (s *Service) ListView(actor models.Actor, now time.Time, f engine.Filter, o engine.Sort) ([]models.Item, error) {
	items, err := s.Workload(actor)
	if err != nil {
		return nil, err
	}
	return s.engine.FilterAndSort(items, actor.ID, now, f, o), nil
}

// ClassroomView lists one classroom's assignments for display.
func (s *Service) ClassroomView(actor models.Actor, classroomID int64, now time.Time, f engine.Filter, o engine.Sort) ([]models.Item, error) {
	if _, err := s.visibleClassroom(actor, classroomID); err != nil {
		return nil, err
	}
	items, err := s.db.ListClassroomItems(classroomID)
	if err != nil {
		return nil, err
	}
	return s.engine.FilterAndSort(items, actor.ID, now, f, o), nil
}

// TaskStreak is the number of consecutive days on which the actor finished
// everything due that day.
func (s *Service) TaskStreak(actor models.Actor, now time.Time) (int, error) {
	items, err := s.Workload(actor)
	if err != nil {
		return 0, err
	}
	return s.engine.DayCoverageStreak(items, actor.ID, now), nil
}

// HabitStatus is a habit as shown on a given day.
type HabitStatus struct {
	Item      models.Item
	Streak    int  // live streak, 0 once the run is broken
	DoneToday bool
}

// HabitStreaks lists the actor's habits with their live streaks.
func (s *Service) HabitStreaks(actor models.Actor, now time.Time) ([]HabitStatus, error) {
	habits, err := s.db.ListItemsByOwner(actor.ID, models.KindHabit)
	if err != nil {
		return nil, err
	}
	out := make([]HabitStatus, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitStatus{
			Item:      h,
			Streak:    s.engine.LiveStreak(h, now),
			DoneToday: s.engine.IsDone(h, actor.ID, now),
		})
	}
	return out, nil
}
