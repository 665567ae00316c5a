package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nzaccagnino/notekeeper/internal/config"
)

type palette struct {
	subtle    lipgloss.Color
	highlight lipgloss.Color
	special   lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	errColor  lipgloss.Color
}

var palettes = map[string]palette{
	config.ThemeLight: {
		subtle:    lipgloss.Color("#D9DCCF"),
		highlight: lipgloss.Color("#3F51B5"),
		special:   lipgloss.Color("#43BF6D"),
		text:      lipgloss.Color("#1a1a1a"),
		muted:     lipgloss.Color("#666666"),
		errColor:  lipgloss.Color("#C62828"),
	},
	config.ThemeDark: {
		subtle:    lipgloss.Color("#383838"),
		highlight: lipgloss.Color("#7D56F4"),
		special:   lipgloss.Color("#73F59F"),
		text:      lipgloss.Color("#fafafa"),
		muted:     lipgloss.Color("#888888"),
		errColor:  lipgloss.Color("#FF5555"),
	},
}

// Styles is the derived style set for the active theme. Toggling the theme
// rebuilds it in place so every view picks up the new palette.
type Styles struct {
	Header       lipgloss.Style
	Panel        lipgloss.Style
	ActivePanel  lipgloss.Style
	Title        lipgloss.Style
	Selected     lipgloss.Style
	SelectedItem lipgloss.Style
	Muted        lipgloss.Style
	StatusBar    lipgloss.Style
	Label        lipgloss.Style
	Error        lipgloss.Style
	Dialog       lipgloss.Style
}

func NewStyles(theme string) *Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[config.ThemeLight]
	}

	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.highlight).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.subtle),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.subtle).
			Padding(1, 2),

		ActivePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.highlight).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.text),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.special),

		SelectedItem: lipgloss.NewStyle().
			Background(p.highlight).
			Foreground(lipgloss.Color("#FFFFFF")),

		Muted: lipgloss.NewStyle().
			Foreground(p.muted),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.highlight),

		Error: lipgloss.NewStyle().
			Foreground(p.errColor).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.highlight).
			Padding(2, 3).
			Align(lipgloss.Center),
	}
}
