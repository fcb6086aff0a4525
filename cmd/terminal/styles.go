package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	header   lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	prompt   lipgloss.Style
	ascii    lipgloss.Style
}

type ThemeName string

const (
	ThemeWarden ThemeName = "warden"
	ThemeEmber  ThemeName = "ember"
	ThemePaper  ThemeName = "paper"
)

// ListThemes returns the selectable console themes, default first.
func ListThemes() []ThemeName {
	return []ThemeName{ThemeWarden, ThemeEmber, ThemePaper}
}

// palette holds the five colors a theme needs: the accent for frames and the
// logo, outcome colors, and a dim tone for secondary text.
type palette struct {
	accent lipgloss.Color
	good   lipgloss.Color
	warn   lipgloss.Color
	bad    lipgloss.Color
	dim    lipgloss.Color
}

func themePalette(theme ThemeName) palette {
	switch theme {
	case ThemeEmber:
		return palette{
			accent: lipgloss.Color("208"),
			good:   lipgloss.Color("220"),
			warn:   lipgloss.Color("214"),
			bad:    lipgloss.Color("196"),
			dim:    lipgloss.Color("240"),
		}
	case ThemePaper:
		return palette{
			accent: lipgloss.Color("252"),
			good:   lipgloss.Color("108"),
			warn:   lipgloss.Color("179"),
			bad:    lipgloss.Color("167"),
			dim:    lipgloss.Color("245"),
		}
	default:
		return palette{
			accent: lipgloss.Color("42"),
			good:   lipgloss.Color("84"),
			warn:   lipgloss.Color("221"),
			bad:    lipgloss.Color("203"),
			dim:    lipgloss.Color("240"),
		}
	}
}

// GetTheme builds the style set for a theme. Unknown names get the default.
func GetTheme(theme ThemeName) styles {
	p := themePalette(theme)
	return styles{
		app: lipgloss.NewStyle().Margin(0, 1),
		header: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 2).
			MarginBottom(1),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.dim).
			PaddingTop(1),
		inactive: lipgloss.NewStyle().Foreground(p.dim),
		error:    lipgloss.NewStyle().Foreground(p.bad).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.good).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(p.warn).Bold(true),
		ascii:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
	}
}
