package views

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/studyhub/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// TargetKind names what a home entry opens
type TargetKind string

const (
	TargetTasks     TargetKind = "tasks"
	TargetHabits    TargetKind = "habits"
	TargetClassroom TargetKind = "class"
)

// Target is a screen reachable from the home list
type Target struct {
	Kind        TargetKind
	ClassroomID int64
}

// String encodes the target for the last_view setting
func (t Target) String() string {
	if t.Kind == TargetClassroom {
		return fmt.Sprintf("%s:%d", t.Kind, t.ClassroomID)
	}
	return string(t.Kind)
}

// ParseTarget decodes a stored target. ok is false for anything unrecognized.
func ParseTarget(s string) (Target, bool) {
	switch TargetKind(s) {
	case TargetTasks, TargetHabits:
		return Target{Kind: TargetKind(s)}, true
	}
	rest, found := strings.CutPrefix(s, string(TargetClassroom)+":")
	if !found {
		return Target{}, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return Target{}, false
	}
	return Target{Kind: TargetClassroom, ClassroomID: id}, true
}

// Open asks the app to switch to a target
type Open struct {
	Target Target
}

// BackHome signals to go back to the home list
type BackHome struct{}

func backHome() tea.Msg { return BackHome{} }

// errMsg carries a failed service call back into a view
type errMsg struct{ err error }

func renderConfirm(s *styles.Styles, title, detail string, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// helpEntry is one line of a keyboard shortcut popup
type helpEntry struct {
	key, desc string
}

func renderHelpPopup(s *styles.Styles, entries []helpEntry, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, e := range entries {
		lines = append(lines, s.HelpKey.Render(fmt.Sprintf("%-6s", e.key))+" "+e.desc)
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, width, height)
}

// renderHelpBar renders the one-line shortcut summary, or a pointer to the
// popup when the terminal is narrow
func renderHelpBar(s *styles.Styles, entries []helpEntry, width int) string {
	contentWidth := styles.ContentWidth(width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = s.HelpKey.Render(e.key) + " " + e.desc
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// renderError renders the last failure, if any
func renderError(s *styles.Styles, err error) string {
	if err == nil {
		return ""
	}
	return s.ErrorText.Render(err.Error())
}
