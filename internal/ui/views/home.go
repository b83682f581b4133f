package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
	"github.com/tgienger/studyhub/internal/ui/keys"
	"github.com/tgienger/studyhub/internal/ui/styles"
)

type homeEntry struct {
	target    Target
	title     string
	desc      string
	classroom *models.Classroom
}

func (e homeEntry) Title() string       { return e.title }
func (e homeEntry) Description() string { return e.desc }
func (e homeEntry) FilterValue() string { return e.title }

type homeDelegate struct {
	styles *styles.Styles
	width  int
}

func (d homeDelegate) Height() int                               { return 2 }
func (d homeDelegate) Spacing() int                              { return 1 }
func (d homeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d homeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(homeEntry)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	titleStyle := d.styles.ListItem.Width(width)
	descStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if index == m.Index() {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(e.Title()), descStyle.Render(e.Description()))
}

// HomeView lists the personal task list, the habit list and every classroom
// the actor teaches or attends
type HomeView struct {
	svc      *tracker.Service
	actor    models.Actor
	list     list.Model
	delegate *homeDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	err      error

	// Classroom form: teachers create, students join by code
	creating bool
	joining  bool
	newName  textinput.Model
	newSubj  textinput.Model
	joinCode textinput.Model
	focusIdx int // 0=name, 1=subject, 2=confirm

	confirmingDelete bool
	deleteTarget     *models.Classroom

	showHelpPopup bool
}

// NewHomeView creates the home list for actor
func NewHomeView(svc *tracker.Service, actor models.Actor) *HomeView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Class name"
	newName.CharLimit = 100

	newSubj := textinput.New()
	newSubj.Placeholder = "Subject (optional)"
	newSubj.CharLimit = 100

	joinCode := textinput.New()
	joinCode.Placeholder = "Join code"
	joinCode.CharLimit = 16

	delegate := &homeDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "StudyHub"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &HomeView{
		svc:      svc,
		actor:    actor,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newSubj:  newSubj,
		joinCode: joinCode,
	}
}

func (v *HomeView) Init() tea.Cmd {
	return v.loadClassrooms
}

type classroomsLoadedMsg struct {
	classrooms []models.Classroom
}

func (v *HomeView) loadClassrooms() tea.Msg {
	classrooms, err := v.svc.Classrooms(v.actor)
	if err != nil {
		return errMsg{err}
	}
	return classroomsLoadedMsg{classrooms: classrooms}
}

func (v *HomeView) teacher() bool {
	return v.actor.Role == models.RoleTeacher
}

func (v *HomeView) entries(classrooms []models.Classroom) []list.Item {
	items := []list.Item{
		homeEntry{target: Target{Kind: TargetTasks}, title: "Tasks", desc: "Personal tasks and class assignments"},
		homeEntry{target: Target{Kind: TargetHabits}, title: "Habits", desc: "Daily habits and streaks"},
	}
	for i := range classrooms {
		c := classrooms[i]
		desc := fmt.Sprintf("%s, %s", c.Subject, english.Plural(len(c.StudentIDs), "student", ""))
		if v.teacher() {
			desc += fmt.Sprintf(", code %s", c.Code)
		}
		items = append(items, homeEntry{
			target:    Target{Kind: TargetClassroom, ClassroomID: c.ID},
			title:     c.Name,
			desc:      desc,
			classroom: &c,
		})
	}
	return items
}

func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(max(contentWidth-4, 0), max(msg.Height-6, 0))
		return v, nil

	case classroomsLoadedMsg:
		v.list.SetItems(v.entries(msg.classrooms))
		v.loaded = true
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

		if v.creating || v.joining {
			return v.updateForm(msg)
		}

		v.err = nil
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, nil
		case key.Matches(msg, v.keys.New) && v.teacher():
			v.creating = true
			v.focusIdx = 0
			v.newName.Reset()
			v.newSubj.Reset()
			v.updateFocus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Join) && !v.teacher():
			v.joining = true
			v.focusIdx = 0
			v.joinCode.Reset()
			v.joinCode.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if e, ok := v.list.SelectedItem().(homeEntry); ok {
				return v, func() tea.Msg { return Open{Target: e.target} }
			}
		case key.Matches(msg, v.keys.Delete):
			if e, ok := v.list.SelectedItem().(homeEntry); ok && e.classroom != nil {
				v.confirmingDelete = true
				v.deleteTarget = e.classroom
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// updateConfirmDelete deletes the classroom for its teacher and leaves it for
// a student
func (v *HomeView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		var err error
		if v.teacher() {
			err = v.svc.DeleteClassroom(v.actor, v.deleteTarget.ID)
		} else {
			err = v.svc.LeaveClassroom(v.actor, v.deleteTarget.ID)
		}
		if err != nil {
			v.err = err
			return v, nil
		}
		return v, v.loadClassrooms
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *HomeView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := 3
	if v.joining {
		fields = 2
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating, v.joining = false, false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submit()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + fields - 1) % fields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % fields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < fields-1 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	switch {
	case v.joining && v.focusIdx == 0:
		v.joinCode, cmd = v.joinCode.Update(msg)
	case v.creating && v.focusIdx == 0:
		v.newName, cmd = v.newName.Update(msg)
	case v.creating && v.focusIdx == 1:
		v.newSubj, cmd = v.newSubj.Update(msg)
	}
	return v, cmd
}

func (v *HomeView) submit() tea.Cmd {
	var (
		c   *models.Classroom
		err error
	)
	if v.joining {
		c, err = v.svc.JoinClassroom(v.actor, strings.TrimSpace(v.joinCode.Value()))
	} else {
		c, err = v.svc.CreateClassroom(v.actor, models.Classroom{
			Name:    strings.TrimSpace(v.newName.Value()),
			Subject: strings.TrimSpace(v.newSubj.Value()),
		})
	}
	if err != nil {
		v.err = err
		return nil
	}

	v.creating, v.joining = false, false
	v.err = nil
	target := Target{Kind: TargetClassroom, ClassroomID: c.ID}
	return func() tea.Msg { return Open{Target: target} }
}

func (v *HomeView) updateFocus() {
	v.newName.Blur()
	v.newSubj.Blur()
	v.joinCode.Blur()
	switch {
	case v.joining && v.focusIdx == 0:
		v.joinCode.Focus()
	case v.creating && v.focusIdx == 0:
		v.newName.Focus()
	case v.creating && v.focusIdx == 1:
		v.newSubj.Focus()
	}
}

// View renders the view
func (v *HomeView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.helpEntries(), v.width, v.height)
	}

	if v.confirmingDelete {
		title, detail := "Leave Class?", v.deleteTarget.Name
		if v.teacher() {
			title, detail = "Delete Class?", "This also deletes its assignments."
		}
		return renderConfirm(v.styles, title, detail, v.width, v.height)
	}

	if v.creating || v.joining {
		return v.renderForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	content := v.list.View() + "\n"
	if v.err != nil {
		content += renderError(v.styles, v.err) + "\n"
	}
	content += renderHelpBar(v.styles, v.helpEntries(), v.width)
	return styles.CenterView(content, v.width, v.height)
}

func (v *HomeView) helpEntries() []helpEntry {
	entries := []helpEntry{{"↵", "open"}}
	if v.teacher() {
		entries = append(entries, helpEntry{"n", "new class"}, helpEntry{"d", "delete class"})
	} else {
		entries = append(entries, helpEntry{"J", "join class"}, helpEntry{"d", "leave class"})
	}
	return append(entries, helpEntry{"q", "quit"})
}

func (v *HomeView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	inputStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	var rows []string
	btnIdx := 2
	if v.joining {
		btnIdx = 1
		rows = []string{
			s.Title.Render("Join Class"),
			"",
			"Code:",
			inputStyle(0).Width(inputWidth).Render(v.joinCode.View()),
		}
	} else {
		rows = []string{
			s.Title.Render("New Class"),
			"",
			"Name:",
			inputStyle(0).Width(inputWidth).Render(v.newName.View()),
			"",
			"Subject:",
			inputStyle(1).Width(inputWidth).Render(v.newSubj.View()),
		}
	}

	btnStyle := s.Button
	if v.focusIdx == btnIdx {
		btnStyle = s.ButtonFocused
	}
	label := " Create "
	if v.joining {
		label = " Join "
	}
	rows = append(rows, "", btnStyle.Render(label))
	if v.err != nil {
		rows = append(rows, "", renderError(s, v.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}
