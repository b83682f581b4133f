package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/studyhub/internal/db"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/logging"
	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// 2026-10-14 is a Wednesday.
var wed = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return wed }

func newService(t *testing.T) *tracker.Service {
	t.Helper()
	store, err := db.New(t.TempDir(), db.DriverCgo)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return tracker.New(store, engine.New(time.UTC), logging.Discard())
}

func newActor(t *testing.T, svc *tracker.Service, name string, role models.Role) models.Actor {
	t.Helper()
	u, err := svc.CreateUser(name, role)
	require.NoError(t, err)
	return u.Actor()
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and feeds the resulting messages back into m until the
// chain settles
func drain(m tea.Model, cmd tea.Cmd) tea.Model {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = drain(m, c)
			}
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

// press sends a key and runs whatever it triggers
func press(m tea.Model, k string) tea.Model {
	m, cmd := m.Update(keyPress(k))
	return drain(m, cmd)
}

// typeText enters text into the focused input. Cursor blink commands are
// dropped.
func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(keyPress(string(r)))
	}
	return m
}

func TestTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
		ok   bool
	}{
		{"tasks", Target{Kind: TargetTasks}, true},
		{"habits", Target{Kind: TargetHabits}, true},
		{"class:7", Target{Kind: TargetClassroom, ClassroomID: 7}, true},
		{"class:0", Target{}, false},
		{"class:x", Target{}, false},
		{"projects", Target{}, false},
		{"", Target{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTarget(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.in, got.String())
			}
		})
	}
}

func TestDueLabel(t *testing.T) {
	days := engine.New(time.UTC).Days()
	assert.Equal(t, "today", dueLabel(days, wed.Add(5*time.Hour), wed))
	assert.Equal(t, "2 days ago", dueLabel(days, wed.AddDate(0, 0, -2), wed))
	assert.Equal(t, "1 day from now", dueLabel(days, wed.AddDate(0, 0, 1), wed))
}

func TestItemListView_ToggleAndFilter(t *testing.T) {
	svc := newService(t)
	sam := newActor(t, svc, "sam", models.RoleStudent)
	due := wed
	task, err := svc.CreateTask(sam, tracker.ItemInput{Title: "Essay", DueDate: &due})
	require.NoError(t, err)

	v := NewItemListView(svc, sam, clock, 0)
	m := drain(v, v.Init())
	require.Len(t, v.items, 1)

	m = press(m, " ")
	it, err := svc.Item(sam, task.ID)
	require.NoError(t, err)
	assert.True(t, it.Task.Done)
	assert.Equal(t, 1, v.streak, "today is fully covered")

	// all → pending hides the finished task
	m = press(m, "s")
	assert.Equal(t, engine.FilterPending, v.filter.Status)
	assert.Empty(t, v.items)

	m = press(m, "s")
	m = press(m, "s")
	assert.Equal(t, engine.FilterCompleted, v.filter.Status)
	assert.Len(t, v.items, 1)

	press(m, "P")
	assert.Equal(t, engine.SortAsc, v.sort.Priority)
}

func TestItemListView_CreateTask(t *testing.T) {
	svc := newService(t)
	sam := newActor(t, svc, "sam", models.RoleStudent)

	v := NewItemListView(svc, sam, clock, 0)
	m := drain(v, v.Init())

	m = press(m, "n")
	require.True(t, v.editing)
	m = typeText(m, "Read chapter 3")
	m = press(m, "ctrl+s")

	assert.False(t, v.editing)
	assert.NoError(t, v.err)
	require.Len(t, v.items, 1)
	assert.Equal(t, "Read chapter 3", v.items[0].Title)
	assert.Equal(t, models.PriorityMedium, v.items[0].Priority)

	// An empty title stays in the form with the error shown
	m = press(m, "n")
	press(m, "ctrl+s")
	assert.True(t, v.editing)
	assert.True(t, engine.IsValidation(v.err))
}

func TestItemListView_ClassroomAssignments(t *testing.T) {
	svc := newService(t)
	tina := newActor(t, svc, "tina", models.RoleTeacher)
	sam := newActor(t, svc, "sam", models.RoleStudent)

	c, err := svc.CreateClassroom(tina, models.Classroom{Name: "Biology"})
	require.NoError(t, err)
	_, err = svc.JoinClassroom(sam, c.Code)
	require.NoError(t, err)
	_, err = svc.CreateAssignment(tina, c.ID, tracker.ItemInput{Title: "Lab report"})
	require.NoError(t, err)

	teacherView := NewItemListView(svc, tina, clock, c.ID)
	m := drain(teacherView, teacherView.Init())
	require.Len(t, teacherView.items, 1)
	require.NotNil(t, teacherView.classroom)

	press(m, " ")
	assert.True(t, engine.IsAuthorization(teacherView.err), "teachers do not complete assignments")

	studentView := NewItemListView(svc, sam, clock, c.ID)
	m = drain(studentView, studentView.Init())
	press(m, " ")
	assert.NoError(t, studentView.err)
	require.Len(t, studentView.items, 1)
	assert.Equal(t, []int64{sam.ID}, engine.Completers(studentView.items[0]))
	assert.Equal(t, "1 student", studentView.completedBy(studentView.items[0]))

	// The teacher's detail view names who finished
	m = drain(teacherView, teacherView.Init())
	press(m, "enter")
	require.True(t, teacherView.viewing)
	assert.Equal(t, "1 student: sam", teacherView.completedBy(teacherView.items[0]))
}

func TestHabitListView(t *testing.T) {
	svc := newService(t)
	sam := newActor(t, svc, "sam", models.RoleStudent)

	v := NewHabitListView(svc, sam, clock)
	m := drain(v, v.Init())
	assert.True(t, v.loaded)
	assert.Empty(t, v.habits)

	m = press(m, "n")
	m = typeText(m, "Flashcards")
	m = press(m, "enter")
	require.Len(t, v.habits, 1)
	assert.False(t, v.habits[0].DoneToday)

	m = press(m, " ")
	assert.True(t, v.habits[0].DoneToday)
	assert.Equal(t, 1, v.habits[0].Streak)

	m = press(m, " ")
	assert.False(t, v.habits[0].DoneToday)
	assert.Equal(t, 0, v.habits[0].Streak)

	m = press(m, "d")
	press(m, "y")
	assert.Empty(t, v.habits)
}

func TestHomeView(t *testing.T) {
	svc := newService(t)
	tina := newActor(t, svc, "tina", models.RoleTeacher)
	sam := newActor(t, svc, "sam", models.RoleStudent)

	c, err := svc.CreateClassroom(tina, models.Classroom{Name: "Biology"})
	require.NoError(t, err)

	v := NewHomeView(svc, sam)
	m := drain(v, v.Init())
	assert.Len(t, v.list.Items(), 2, "tasks and habits only")

	m = press(m, "J")
	require.True(t, v.joining)
	m = typeText(m, c.Code)
	m, cmd := m.Update(keyPress("ctrl+s"))
	require.NotNil(t, cmd)
	assert.Equal(t, Open{Target: Target{Kind: TargetClassroom, ClassroomID: c.ID}}, cmd())

	drain(m, v.Init())
	require.Len(t, v.list.Items(), 3)
	entry := v.list.Items()[2].(homeEntry)
	assert.Equal(t, "Biology", entry.title)
	assert.Equal(t, "General, 1 student", entry.desc)

	// Students cannot create classrooms
	press(m, "n")
	assert.False(t, v.creating)
}
