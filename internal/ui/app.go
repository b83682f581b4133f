package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
	"github.com/tgienger/studyhub/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewHome View = iota
	ViewItems
	ViewHabits
)

type App struct {
	svc         *tracker.Service
	actor       models.Actor
	clock       func() time.Time
	currentView View
	home        *views.HomeView
	items       *views.ItemListView
	habits      *views.HabitListView
	width       int
	height      int
}

// NewApp creates the application for actor. clock supplies "now" for every
// status and streak computation.
func NewApp(svc *tracker.Service, actor models.Actor, clock func() time.Time) *App {
	return &App{
		svc:         svc,
		actor:       actor,
		clock:       clock,
		currentView: ViewHome,
		home:        views.NewHomeView(svc, actor),
	}
}

// lastViewKey is the per-user setting holding the last opened screen
func (a *App) lastViewKey() string {
	return fmt.Sprintf("last_view.%d", a.actor.ID)
}

func (a *App) Init() tea.Cmd {
	// Reopen the last screen if it is still reachable
	last, err := a.svc.Setting(a.lastViewKey())
	if err == nil && last != "" {
		if target, ok := views.ParseTarget(last); ok && a.reachable(target) {
			return a.open(target)
		}
	}
	return a.home.Init()
}

func (a *App) reachable(t views.Target) bool {
	if t.Kind != views.TargetClassroom {
		return true
	}
	_, err := a.svc.Classroom(a.actor, t.ClassroomID)
	return err == nil
}

func (a *App) open(t views.Target) tea.Cmd {
	var init tea.Cmd
	switch t.Kind {
	case views.TargetHabits:
		a.currentView = ViewHabits
		a.habits = views.NewHabitListView(a.svc, a.actor, a.clock)
		init = a.habits.Init()
	default:
		a.currentView = ViewItems
		a.items = views.NewItemListView(a.svc, a.actor, a.clock, t.ClassroomID)
		init = a.items.Init()
	}

	a.svc.SetSetting(a.lastViewKey(), t.String())

	return tea.Batch(
		init,
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Home persists across screens
		a.home.Update(msg)

	case views.Open:
		return a, a.open(msg.Target)

	case views.BackHome:
		a.currentView = ViewHome
		a.svc.SetSetting(a.lastViewKey(), "")
		return a, tea.Batch(
			a.home.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewHome:
		_, cmd = a.home.Update(msg)
	case ViewItems:
		_, cmd = a.items.Update(msg)
	case ViewHabits:
		_, cmd = a.habits.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewItems:
		if a.items != nil {
			return a.items.View()
		}
	case ViewHabits:
		if a.habits != nil {
			return a.habits.View()
		}
	}
	return a.home.View()
}
