package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette of hex colors.
type Theme struct {
	Name string

	Background, Surface, SurfaceAlt, FocusBg string
	SelectionBg, SelectionText               string
	Border, BorderFocus                      string

	Text, Muted, Faint, Accent     string
	Success, Warning, Danger, Info string

	// Collected colors the favorite marker in lists and the detail view.
	Collected string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text          lipgloss.Style
	MutedText     lipgloss.Style
	FaintText     lipgloss.Style
	AccentText    lipgloss.Style
	SuccessText   lipgloss.Style
	WarningText   lipgloss.Style
	DangerText    lipgloss.Style
	InfoText      lipgloss.Style
	CollectedText lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:          fg(t.Text),
		MutedText:     fg(t.Muted),
		FaintText:     fg(t.Faint),
		AccentText:    fg(t.Accent),
		SuccessText:   fg(t.Success).Bold(true),
		WarningText:   fg(t.Warning),
		DangerText:    fg(t.Danger).Bold(true),
		InfoText:      fg(t.Info),
		CollectedText: fg(t.Collected),

		Header:   fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),
	}
}

// WithBackground returns a copy whose styles all paint bgColor behind their
// text, so segments never show the terminal's own background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText, &s.SuccessText,
		&s.WarningText, &s.DangerText, &s.InfoText, &s.CollectedText,
		&s.Header, &s.Logo, &s.Selected,
	} {
		*st = st.Background(bg)
	}
	return s
}

// LevelStyle returns the style for a log level label.
func (s Styles) LevelStyle(level string) lipgloss.Style {
	switch level {
	case "INFO":
		return s.SuccessText
	case "WARN":
		return s.WarningText
	case "ERROR", "FATAL", "PANIC":
		return s.DangerText
	case "DEBUG", "TRACE":
		return s.InfoText
	default:
		return s.Text
	}
}

// DefaultThemeName is used when no preference is stored.
const DefaultThemeName = "Nightfox"

// themeOrder is the cycle order of the T key.
var themeOrder = []Theme{
	{
		// https://github.com/EdenEast/nightfox.nvim
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", SurfaceAlt: "#212e3f", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Border: "#39506d", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
		Collected: "#f4a261",
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", SurfaceAlt: "#2A2A37", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Border: "#54546D", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
		Collected: "#FFA066",
	},
	{
		// Tailwind slate and sky
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", SurfaceAlt: "#1e293b", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Border: "#334155", BorderFocus: "#38bdf8",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Success: "#22c55e", Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
		Collected: "#fb923c",
	},
}

// GetTheme returns a theme by name, or the default theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range themeOrder {
		if t.Name == name {
			return t
		}
	}
	return themeOrder[0]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themeOrder {
		if t.Name == current {
			return themeOrder[(i+1)%len(themeOrder)].Name
		}
	}
	return themeOrder[0].Name
}

// ThemeNames returns the available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, 0, len(themeOrder))
	for _, t := range themeOrder {
		names = append(names, t.Name)
	}
	return names
}
