package engine

import (
	"time"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/models"
)

// DayCoverageStreak counts consecutive days, walking back from today, on
// which every item due that day is Completed for viewer.
//
// Scan rules, for at most coverageWindow days:
//   - a day with due items that are all completed extends the streak
//   - a day with an incomplete due item ends the scan, except today, which
//     simply does not count yet
//   - a day with nothing due is skipped when it is today and ends the scan
//     otherwise
//
// Items without a due date never take part.
func (e *Engine) DayCoverageStreak(items []models.Item, viewer int64, now time.Time) int {
	byDay := make(map[day.Key][]models.Item)
	for _, it := range items {
		if it.DueDate == nil {
			continue
		}
		k := e.days.Key(*it.DueDate)
		byDay[k] = append(byDay[k], it)
	}

	streak := 0
	check := e.days.Key(now)
	for i := 0; i < coverageWindow; i++ {
		due := byDay[check]
		if len(due) == 0 {
			if i > 0 {
				break
			}
		} else if e.allCompleted(due, viewer, now) {
			streak++
		} else if i > 0 {
			break
		}
		check = check.Prev()
	}
	return streak
}

func (e *Engine) allCompleted(items []models.Item, viewer int64, now time.Time) bool {
	for _, it := range items {
		if e.Classify(it, viewer, now) != StatusCompleted {
			return false
		}
	}
	return true
}
