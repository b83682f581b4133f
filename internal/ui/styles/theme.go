package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
	Cursor:      lipgloss.Color("#c0caf5"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Dropdowns and popups
	FilterBar lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Subject tag
	Subject lipgloss.Style

	// Item rows
	ItemTitle     lipgloss.Style
	ItemDone      lipgloss.Style
	StatusPending lipgloss.Style
	StatusOverdue lipgloss.Style
	StatusDone    lipgloss.Style
	PriorityLow   lipgloss.Style
	PriorityMed   lipgloss.Style
	PriorityHigh  lipgloss.Style

	// Streak badge in headers
	Streak lipgloss.Style

	// Error line
	ErrorText lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		FilterBar: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Subject: lipgloss.NewStyle().
			MarginLeft(1),

		ItemTitle: lipgloss.NewStyle().
			Foreground(t.Foreground),

		ItemDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		StatusPending: lipgloss.NewStyle().
			Foreground(t.Info),

		StatusOverdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		StatusDone: lipgloss.NewStyle().
			Foreground(t.Success),

		PriorityLow: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		PriorityMed: lipgloss.NewStyle().
			Foreground(t.Warning),

		PriorityHigh: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Streak: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		ErrorText: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 2),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
	}
}

// ForStatus returns the style for an item's derived status
func (s *Styles) ForStatus(st engine.Status) lipgloss.Style {
	switch st {
	case engine.StatusOverdue:
		return s.StatusOverdue
	case engine.StatusCompleted:
		return s.StatusDone
	}
	return s.StatusPending
}

// ForPriority returns the style for a priority marker
func (s *Styles) ForPriority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return s.PriorityHigh
	case models.PriorityLow:
		return s.PriorityLow
	}
	return s.PriorityMed
}

// SubjectColor renders text in a subject's color, falling back to the accent
func SubjectColor(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle().Foreground(Current.Accent)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
