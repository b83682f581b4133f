// Package engine derives completion, overdue and streak state from items.
//
// Everything here is pure computation over already-loaded items: the caller
// passes the current instant and the acting identity explicitly, and is
// responsible for persisting any item returned by a mutating operation
// atomically (see db.MutateItem).
//
// The engine has two streak modes that are never mixed in one feature:
//
//   - per-habit streaks, maintained incrementally by CompleteHabit and
//     UncompleteHabit
//   - day-coverage streaks over a task list, computed by DayCoverageStreak
package engine

import (
	"time"

	"github.com/tgienger/studyhub/internal/day"
)

// coverageWindow bounds how far back DayCoverageStreak scans.
const coverageWindow = 365

// Engine holds the calendar convention shared by every rule.
type Engine struct {
	days day.Normalizer
}

// New creates an engine computing calendar days in loc (nil means local).
func New(loc *time.Location) *Engine {
	return &Engine{days: day.NewNormalizer(loc)}
}

// Days returns the engine's normalizer.
func (e *Engine) Days() day.Normalizer {
	return e.days
}
