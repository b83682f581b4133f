package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
	"github.com/tgienger/studyhub/internal/ui/keys"
	"github.com/tgienger/studyhub/internal/ui/styles"
)

// HabitListView shows the actor's habits with today's check mark and live streak
type HabitListView struct {
	svc    *tracker.Service
	actor  models.Actor
	clock  func() time.Time
	habits []tracker.HabitStatus
	styles *styles.Styles
	keys   keys.KeyMap
	err    error

	width  int
	height int
	cursor int
	loaded bool

	creating bool
	newTitle textinput.Model

	confirmingDelete bool

	showHelpPopup bool
}

// NewHabitListView creates the habit view
func NewHabitListView(svc *tracker.Service, actor models.Actor, clock func() time.Time) *HabitListView {
	newTitle := textinput.New()
	newTitle.Placeholder = "Habit"
	newTitle.CharLimit = 200

	return &HabitListView{
		svc:      svc,
		actor:    actor,
		clock:    clock,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		newTitle: newTitle,
	}
}

func (v *HabitListView) Init() tea.Cmd {
	return v.loadHabits
}

type habitsLoadedMsg struct {
	habits []tracker.HabitStatus
}

func (v *HabitListView) loadHabits() tea.Msg {
	habits, err := v.svc.HabitStreaks(v.actor, v.clock())
	if err != nil {
		return errMsg{err}
	}
	return habitsLoadedMsg{habits: habits}
}

func (v *HabitListView) selected() *tracker.HabitStatus {
	if v.cursor < 0 || v.cursor >= len(v.habits) {
		return nil
	}
	return &v.habits[v.cursor]
}

func (v *HabitListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case habitsLoadedMsg:
		v.habits = msg.habits
		v.loaded = true
		if v.cursor >= len(v.habits) {
			v.cursor = max(0, len(v.habits)-1)
		}
		return v, nil

	case errMsg:
		v.err = msg.err
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *HabitListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.err = nil
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		return v, backHome
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.habits)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if h := v.selected(); h != nil {
			if _, err := v.svc.ToggleHabit(v.actor, h.Item.ID, v.clock()); err != nil {
				v.err = err
				return v, nil
			}
			return v, v.loadHabits
		}
	case key.Matches(msg, v.keys.New):
		v.creating = true
		v.newTitle.Reset()
		v.newTitle.Focus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		if v.selected() != nil {
			v.confirmingDelete = true
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return v, nil
}

func (v *HabitListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.err = nil
		return v, nil
	case key.Matches(msg, v.keys.Enter), msg.String() == "ctrl+s":
		_, err := v.svc.CreateHabit(v.actor, tracker.ItemInput{Title: strings.TrimSpace(v.newTitle.Value())})
		if err != nil {
			v.err = err
			return v, nil
		}
		v.creating = false
		v.err = nil
		return v, v.loadHabits
	}

	var cmd tea.Cmd
	v.newTitle, cmd = v.newTitle.Update(msg)
	return v, cmd
}

func (v *HabitListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if h := v.selected(); h != nil {
			if err := v.svc.DeleteItem(v.actor, h.Item.ID); err != nil {
				v.err = err
				return v, nil
			}
		}
		return v, v.loadHabits
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *HabitListView) helpEntries() []helpEntry {
	return []helpEntry{
		{"space", "done today"},
		{"n", "new"},
		{"d", "del"},
		{"esc", "back"},
		{"q", "quit"},
	}
}

// View renders the view
func (v *HabitListView) View() string {
	s := v.styles

	if v.showHelpPopup {
		return renderHelpPopup(s, v.helpEntries(), v.width, v.height)
	}

	if v.confirmingDelete {
		name := ""
		if h := v.selected(); h != nil {
			name = h.Item.Title
		}
		return renderConfirm(s, "Delete Habit?", name, v.width, v.height)
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	done := 0
	for _, h := range v.habits {
		if h.DoneToday {
			done++
		}
	}

	rows := []string{
		s.Title.Render("Habits") + s.TitleMuted.Render(fmt.Sprintf("  %d of %d done today", done, len(v.habits))),
		"",
	}
	if len(v.habits) == 0 {
		rows = append(rows, s.TitleMuted.Render("No habits. Press 'n' to start one."))
	}
	width := clamp(styles.ContentWidth(v.width)-4, 20, 76)
	for i, h := range v.habits {
		check := "[ ]"
		titleStyle := s.ItemTitle
		if h.DoneToday {
			check = "[x]"
			titleStyle = s.StatusDone
		}
		line := check + " " + titleStyle.Render(h.Item.Title) + "  " +
			s.Streak.Render(english.Plural(h.Streak, "day", "")+" streak")

		rowStyle := s.ListItem
		if i == v.cursor {
			rowStyle = s.ListSelected
		}
		rows = append(rows, rowStyle.Width(width).Render(line))
	}

	rows = append(rows, "")
	if v.err != nil {
		rows = append(rows, renderError(s, v.err))
	}
	rows = append(rows, renderHelpBar(s, v.helpEntries(), v.width))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, rows...), v.width, v.height)
}

func (v *HabitListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	rows := []string{
		s.Title.Render("New Habit"),
		"",
		"Title:",
		s.InputFocused.Width(clamp(contentWidth-6, 20, 50)).Render(v.newTitle.View()),
	}
	if v.err != nil {
		rows = append(rows, "", renderError(s, v.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Enter: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}
