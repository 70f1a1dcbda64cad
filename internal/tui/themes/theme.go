// Package themes defines color themes for the review UI.
package themes

import (
	"fmt"
	"sort"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Muted         lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	High          lipgloss.Style
	Medium        lipgloss.Style
	Low           lipgloss.Style
	Replacement   lipgloss.Style
	Name          string
}

// Palette holds the base colors a theme is built from.
type Palette struct {
	Primary    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Foreground lipgloss.Color
	Background lipgloss.Color
	Border     lipgloss.Color
	Muted      lipgloss.Color
}

// New builds a theme from a palette.
func New(name string, p Palette) Theme {
	return Theme{
		Name: name,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted),
		Normal: lipgloss.NewStyle().
			Foreground(p.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Selected: lipgloss.NewStyle().
			Background(p.Primary).
			Foreground(p.Background).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		High: lipgloss.NewStyle().
			Background(p.Error).
			Foreground(p.Background).
			Bold(true),
		Medium: lipgloss.NewStyle().
			Background(p.Warning).
			Foreground(p.Background),
		Low: lipgloss.NewStyle().
			Underline(true).
			Foreground(p.Success),
		Replacement: lipgloss.NewStyle().
			Foreground(p.Success).
			Italic(true),
	}
}

// Severity returns the match style for a severity.
func (t Theme) Severity(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityHigh:
		return t.High
	case model.SeverityLow:
		return t.Low
	default:
		return t.Medium
	}
}

// Default is the default theme.
var Default = New("default", Palette{
	Primary:    lipgloss.Color("#7c3aed"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Foreground: lipgloss.Color("#fafafa"),
	Background: lipgloss.Color("#1a1a1a"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = New("catppuccin", Palette{
	Primary:    lipgloss.Color("#cba6f7"),
	Success:    lipgloss.Color("#a6e3a1"),
	Warning:    lipgloss.Color("#f9e2af"),
	Error:      lipgloss.Color("#f38ba8"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Background: lipgloss.Color("#1e1e2e"),
	Border:     lipgloss.Color("#45475a"),
	Muted:      lipgloss.Color("#6c7086"),
})

var registry = map[string]Theme{
	Default.Name:         Default,
	CatppuccinMocha.Name: CatppuccinMocha,
}

// ByName looks up a theme. An empty name selects Default.
func ByName(name string) (Theme, error) {
	if name == "" {
		return Default, nil
	}
	theme, ok := registry[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, Names())
	}
	return theme, nil
}

// Names lists the registered theme names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
