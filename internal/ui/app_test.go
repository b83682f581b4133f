package ui

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
	"github.com/tgienger/studyhub/internal/ui/views"
)

func clock() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

// run executes cmd and feeds the resulting messages back into the app
func run(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(a, c)
		}
		return
	}
	if msg != nil {
		_, next := a.Update(msg)
		run(a, next)
	}
}

func TestApp_RemembersLastView(t *testing.T) {
	store, err := db.New(t.TempDir(), db.DriverCgo)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	svc := tracker.New(store, engine.New(time.UTC), logging.Discard())

	u, err := svc.CreateUser("sam", models.RoleStudent)
	require.NoError(t, err)
	actor := u.Actor()

	a := NewApp(svc, actor, clock)
	run(a, a.Init())
	assert.Equal(t, ViewHome, a.currentView)

	_, cmd := a.Update(views.Open{Target: views.Target{Kind: views.TargetHabits}})
	run(a, cmd)
	assert.Equal(t, ViewHabits, a.currentView)

	// A fresh app reopens habits
	b := NewApp(svc, actor, clock)
	run(b, b.Init())
	assert.Equal(t, ViewHabits, b.currentView)

	_, cmd = b.Update(views.BackHome{})
	run(b, cmd)
	assert.Equal(t, ViewHome, b.currentView)

	// A stale classroom target falls back to home
	require.NoError(t, svc.SetSetting(b.lastViewKey(), "class:99"))
	c := NewApp(svc, actor, clock)
	run(c, c.Init())
	assert.Equal(t, ViewHome, c.currentView)
}
