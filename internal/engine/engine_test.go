package engine

import (
	"time"

	"github.com/tgienger/studyhub/internal/models"
)

// Calendar used across the engine tests: 2026-10-12 is a Monday.
var (
	mon = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	tue = mon.AddDate(0, 0, 1)
	wed = mon.AddDate(0, 0, 2)
	thu = mon.AddDate(0, 0, 3)
)

func newTestEngine() *Engine {
	return New(time.UTC)
}

func task(id int64, done bool, due *time.Time) models.Item {
	it := models.NewItem(models.KindTask, 1, "task")
	it.ID = id
	it.Task.Done = done
	it.DueDate = due
	return it
}

func habit(id int64) models.Item {
	it := models.NewItem(models.KindHabit, 1, "habit")
	it.ID = id
	return it
}

func assignment(id, classroomID int64, completedBy ...int64) models.Item {
	it := models.NewItem(models.KindAssignment, 99, "assignment")
	it.ID = id
	it.Assignment.ClassroomID = classroomID
	for _, p := range completedBy {
		it.Assignment.Completions[p] = struct{}{}
	}
	return it
}

func at(t time.Time) *time.Time {
	return &t
}
