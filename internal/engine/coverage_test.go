package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/studyhub/internal/models"
)

func TestDayCoverageStreak(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name  string
		items []models.Item
		now   int // days after mon
		want  int
	}{
		{
			name: "empty list",
			want: 0,
		},
		{
			name: "three fully completed days ending today",
			items: []models.Item{
				task(1, true, at(mon)),
				task(2, true, at(tue)),
				task(3, true, at(wed)),
			},
			now:  2,
			want: 3,
		},
		{
			name: "incomplete today does not break prior run",
			items: []models.Item{
				task(1, true, at(mon)),
				task(2, true, at(tue)),
				task(3, false, at(wed)),
			},
			now:  2,
			want: 2,
		},
		{
			name: "nothing due today is skipped",
			items: []models.Item{
				task(1, true, at(mon)),
				task(2, true, at(tue)),
			},
			now:  2,
			want: 2,
		},
		{
			name: "incomplete day before today ends the run",
			items: []models.Item{
				task(1, true, at(mon)),
				task(2, false, at(tue)),
				task(3, true, at(wed)),
			},
			now:  2,
			want: 1,
		},
		{
			name: "partially completed day does not count",
			items: []models.Item{
				task(1, true, at(tue)),
				task(2, false, at(tue)),
				task(3, true, at(wed)),
			},
			now:  2,
			want: 1,
		},
		{
			name: "empty day before today ends the run",
			items: []models.Item{
				task(1, true, at(mon)),
				task(3, true, at(wed)),
			},
			now:  2,
			want: 1,
		},
		{
			name: "empty yesterday with nothing today",
			items: []models.Item{
				task(1, true, at(mon)),
			},
			now:  2,
			want: 0,
		},
		{
			name: "undated items are ignored",
			items: []models.Item{
				task(1, false, nil),
				task(2, true, at(wed)),
			},
			now:  2,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := mon.AddDate(0, 0, tt.now)
			assert.Equal(t, tt.want, e.DayCoverageStreak(tt.items, 0, now))
		})
	}
}

func TestDayCoverageStreak_BoundedWindow(t *testing.T) {
	e := newTestEngine()
	now := mon.AddDate(2, 0, 0)

	var items []models.Item
	for i := 0; i < 500; i++ {
		items = append(items, task(int64(i+1), true, at(now.AddDate(0, 0, -i))))
	}
	assert.Equal(t, coverageWindow, e.DayCoverageStreak(items, 0, now))
}

func TestDayCoverageStreak_AssignmentsPerViewer(t *testing.T) {
	e := newTestEngine()
	a1 := assignment(1, 7, 10)
	a1.DueDate = at(tue)
	a2 := assignment(2, 7, 10, 11)
	a2.DueDate = at(wed)

	items := []models.Item{a1, a2}
	assert.Equal(t, 2, e.DayCoverageStreak(items, 10, wed))
	assert.Equal(t, 1, e.DayCoverageStreak(items, 11, wed))
}
