package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/todolist/internal/model"
)

// Theme defines the color scheme for the menu
type Theme struct {
	Name string

	// Base colors
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Task status colors
	StatusTodo  lipgloss.Color
	StatusDoing lipgloss.Color
	StatusDone  lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header     lipgloss.Style
	Breadcrumb lipgloss.Style

	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Label        lipgloss.Style
	Overdue      lipgloss.Style

	Panel lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	statusTodo  lipgloss.Style
	statusDoing lipgloss.Style
	statusDone  lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Item: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		ItemSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Highlight).
			Bold(true).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Overdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		statusTodo:  lipgloss.NewStyle().Foreground(t.StatusTodo),
		statusDoing: lipgloss.NewStyle().Foreground(t.StatusDoing),
		statusDone:  lipgloss.NewStyle().Foreground(t.StatusDone),
	}
}

// Status returns the style used to render a task status
func (s Styles) Status(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusDoing:
		return s.statusDoing
	case model.StatusDone:
		return s.statusDone
	default:
		return s.statusTodo
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after the current one, wrapping around
func Next() Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == Current.Theme.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
