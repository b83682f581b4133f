package engine

import (
	"sort"
	"time"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/models"
)

// CompleteHabit records a completion of it for now's calendar day and
// advances its streak: +1 if yesterday was completed, otherwise back to 1.
// A second completion on the same day is rejected, never double counted.
func (e *Engine) CompleteHabit(it models.Item, now time.Time) (models.Item, error) {
	if err := requireHabit(it); err != nil {
		return it, err
	}
	today := e.days.Key(now)
	if it.Habit.Has(today) {
		return it, NewAlreadyCompletedError(it.ID, today.String())
	}

	out := it.Clone()
	if out.Habit.Has(today.Prev()) {
		out.Habit.Streak++
	} else {
		out.Habit.Streak = 1
	}
	out.Habit.History = insertDay(out.Habit.History, today)
	return out, nil
}

// UncompleteHabit removes now's calendar day from the history of it and
// takes one off its streak, floored at zero.
func (e *Engine) UncompleteHabit(it models.Item, now time.Time) (models.Item, error) {
	if err := requireHabit(it); err != nil {
		return it, err
	}
	today := e.days.Key(now)
	if !it.Habit.Has(today) {
		return it, &Error{Code: ErrCodeValidation, Message: "not completed on " + today.String(), ItemID: it.ID}
	}

	out := it.Clone()
	out.Habit.History = removeDay(out.Habit.History, today)
	out.Habit.Streak = max(out.Habit.Streak-1, 0)
	return out, nil
}

// SetHabitDone completes or un-marks today depending on done. Asking for the
// state the habit is already in is an error, so a replayed "complete" request
// surfaces as ALREADY_COMPLETED.
func (e *Engine) SetHabitDone(it models.Item, now time.Time, done bool) (models.Item, error) {
	if done {
		return e.CompleteHabit(it, now)
	}
	return e.UncompleteHabit(it, now)
}

// LiveStreak is the cached streak of it as it should be displayed at now: a
// run whose last completed day is older than yesterday is already broken.
func (e *Engine) LiveStreak(it models.Item, now time.Time) int {
	if it.Habit == nil || len(it.Habit.History) == 0 {
		return 0
	}
	if it.Habit.Last().Before(e.days.Key(now).Prev()) {
		return 0
	}
	return it.Habit.Streak
}

// RecountStreak recomputes the streak ending at the most recent completed day
// from the history alone. The incremental rules never let Streak exceed it;
// un-marking a day after a reset can leave Streak below it.
func RecountStreak(history []day.Key) int {
	if len(history) == 0 {
		return 0
	}
	streak := 1
	for i := len(history) - 1; i > 0; i-- {
		if history[i-1] != history[i].Prev() {
			break
		}
		streak++
	}
	return streak
}

func requireHabit(it models.Item) error {
	if it.Kind != models.KindHabit || it.Habit == nil {
		return NewValidationError("item %d is not a habit", it.ID)
	}
	return nil
}

func insertDay(history []day.Key, k day.Key) []day.Key {
	i := sort.Search(len(history), func(i int) bool { return !history[i].Before(k) })
	if i < len(history) && history[i] == k {
		return history
	}
	history = append(history, day.Key{})
	copy(history[i+1:], history[i:])
	history[i] = k
	return history
}

func removeDay(history []day.Key, k day.Key) []day.Key {
	out := history[:0]
	for _, d := range history {
		if d != k {
			out = append(out, d)
		}
	}
	return out
}
