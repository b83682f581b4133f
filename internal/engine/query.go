package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/models"
)

// StatusFilter selects items by derived status.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterPending
	FilterOverdue
	FilterCompleted
)

var statusFilterNames = []string{"All", "Pending", "Overdue", "Completed"}

func (f StatusFilter) String() string {
	if f < 0 || int(f) >= len(statusFilterNames) {
		return fmt.Sprintf("StatusFilter(%d)", int(f))
	}
	return statusFilterNames[f]
}

// Next cycles All → Pending → Overdue → Completed → All.
func (f StatusFilter) Next() StatusFilter {
	return (f + 1) % StatusFilter(len(statusFilterNames))
}

// ParseStatusFilter accepts all or any status name.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") || strings.TrimSpace(s) == "" {
		return FilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return FilterAll, err
	}
	switch st {
	case StatusPending:
		return FilterPending, nil
	case StatusOverdue:
		return FilterOverdue, nil
	}
	return FilterCompleted, nil
}

func (f StatusFilter) matches(s Status) bool {
	switch f {
	case FilterPending:
		return s == StatusPending
	case FilterOverdue:
		return s == StatusOverdue
	case FilterCompleted:
		return s == StatusCompleted
	}
	return true
}

// Filter narrows a list of items. Zero values match everything.
type Filter struct {
	Status    StatusFilter
	SubjectID *int64
	Priority  models.Priority
	Kind      models.Kind
	Search    string // case-insensitive substring of title or description
}

// SortDir is one tri-state sort toggle.
type SortDir int

const (
	SortOff SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "off"
}

// Next cycles asc → desc → off → asc.
func (d SortDir) Next() SortDir {
	switch d {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortOff
	}
	return SortAsc
}

// ParseSortDir accepts asc, desc or off.
func ParseSortDir(s string) (SortDir, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	case "off", "":
		return SortOff, nil
	}
	return SortOff, fmt.Errorf("invalid sort direction %q: must be asc, desc or off", s)
}

// Sort orders a filtered list. Priority ascending is Low first; due date
// ascending puts items without a due date last. With both set, priority
// decides and due date breaks ties.
type Sort struct {
	Priority SortDir
	Due      SortDir
}

// FilterAndSort classifies items for viewer at now, keeps those matching f
// and orders them by s. Input order is preserved among equal items.
func (e *Engine) FilterAndSort(items []models.Item, viewer int64, now time.Time, f Filter, s Sort) []models.Item {
	needle := ""
	if f.Search != "" {
		needle = cases.Fold().String(strings.TrimSpace(f.Search))
	}

	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if f.Kind != "" && it.Kind != f.Kind {
			continue
		}
		if f.Priority != 0 && it.Priority != f.Priority {
			continue
		}
		if f.SubjectID != nil && (it.SubjectID == nil || *it.SubjectID != *f.SubjectID) {
			continue
		}
		if needle != "" && !matchesSearch(it, needle) {
			continue
		}
		if !f.Status.matches(e.Classify(it, viewer, now)) {
			continue
		}
		out = append(out, it)
	}

	if s.Priority == SortOff && s.Due == SortOff {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := comparePriority(out[i], out[j], s.Priority); c != 0 {
			return c < 0
		}
		return e.compareDue(out[i], out[j], s.Due) < 0
	})
	return out
}

func matchesSearch(it models.Item, needle string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(it.Title), needle) ||
		strings.Contains(fold.String(it.Description), needle)
}

func comparePriority(a, b models.Item, dir SortDir) int {
	switch dir {
	case SortAsc:
		return int(a.Priority) - int(b.Priority)
	case SortDesc:
		return int(b.Priority) - int(a.Priority)
	}
	return 0
}

func (e *Engine) compareDue(a, b models.Item, dir SortDir) int {
	if dir == SortOff {
		return 0
	}
	if a.DueDate == nil || b.DueDate == nil {
		if a.DueDate == nil && b.DueDate == nil {
			return 0
		}
		// undated items go last ascending, first descending
		undatedLast := 1
		if a.DueDate != nil {
			undatedLast = -1
		}
		if dir == SortDesc {
			return -undatedLast
		}
		return undatedLast
	}
	c := e.dueKey(a).Compare(e.dueKey(b))
	if dir == SortDesc {
		return -c
	}
	return c
}

func (e *Engine) dueKey(it models.Item) day.Key {
	return e.days.Key(*it.DueDate)
}
