package models

import (
	"time"

	"github.com/tgienger/studyhub/internal/day"
)

// User is an identity that owns tasks and habits, teaches or attends classrooms
type User struct {
	ID        int64
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   int64
	Role Role
}

// Actor returns the user as an operation caller
func (u User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// Classroom groups a teacher, enrolled students and their shared assignments
type Classroom struct {
	ID         int64
	Name       string
	Subject    string
	TeacherID  int64
	Code       string // join code shared with students
	Day        string
	Time       string
	Room       string
	StudentIDs []int64 // populated when loading a classroom
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasStudent reports whether userID is enrolled
func (c Classroom) HasStudent(userID int64) bool {
	for _, id := range c.StudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Subject is a category tag for personal tasks
type Subject struct {
	ID        int64
	OwnerID   int64
	Name      string
	Color     string
	CreatedAt time.Time
}

// Comment is a note left on an item
type Comment struct {
	ID        int64
	ItemID    int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
}

// Item is a personal task, a habit or a classroom assignment. Exactly one of
// Task, Habit and Assignment is set, matching Kind.
type Item struct {
	ID          int64
	Kind        Kind
	OwnerID     int64
	Title       string
	Description string
	SubjectID   *int64 // nil if uncategorized
	DueDate     *time.Time
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Task       *TaskState
	Habit      *HabitState
	Assignment *AssignmentState

	Subject *Subject // populated when loading items
}

// TaskState is the completion state of a personal task
type TaskState struct {
	Done bool
}

// HabitState is the completion history of a habit. History is ascending and
// holds each calendar day at most once.
type HabitState struct {
	History []day.Key
	Streak  int
}

// Has reports whether k is in the history
func (h *HabitState) Has(k day.Key) bool {
	for _, d := range h.History {
		if d == k {
			return true
		}
	}
	return false
}

// Last returns the most recent completed day, or the zero key
func (h *HabitState) Last() day.Key {
	if len(h.History) == 0 {
		return day.Key{}
	}
	return h.History[len(h.History)-1]
}

// AssignmentState tracks which participants completed a shared assignment
type AssignmentState struct {
	ClassroomID int64
	Completions map[int64]struct{}
}

// Has reports whether participantID completed the assignment
func (a *AssignmentState) Has(participantID int64) bool {
	_, ok := a.Completions[participantID]
	return ok
}

// NewItem returns an item of kind with empty completion state and the
// default priority
func NewItem(kind Kind, ownerID int64, title string) Item {
	it := Item{
		Kind:     kind,
		OwnerID:  ownerID,
		Title:    title,
		Priority: PriorityMedium,
	}
	switch kind {
	case KindTask:
		it.Task = &TaskState{}
	case KindHabit:
		it.Habit = &HabitState{}
	case KindAssignment:
		it.Assignment = &AssignmentState{Completions: map[int64]struct{}{}}
	}
	return it
}

// Clone returns a deep copy so mutations do not leak into the original
func (it Item) Clone() Item {
	out := it
	if it.SubjectID != nil {
		id := *it.SubjectID
		out.SubjectID = &id
	}
	if it.DueDate != nil {
		due := *it.DueDate
		out.DueDate = &due
	}
	if it.Task != nil {
		task := *it.Task
		out.Task = &task
	}
	if it.Habit != nil {
		out.Habit = &HabitState{
			History: append([]day.Key(nil), it.Habit.History...),
			Streak:  it.Habit.Streak,
		}
	}
	if it.Assignment != nil {
		completions := make(map[int64]struct{}, len(it.Assignment.Completions))
		for id := range it.Assignment.Completions {
			completions[id] = struct{}{}
		}
		out.Assignment = &AssignmentState{
			ClassroomID: it.Assignment.ClassroomID,
			Completions: completions,
		}
	}
	return out
}
