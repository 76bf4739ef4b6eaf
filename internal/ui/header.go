package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top line: name, signed-in user and the view.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("wanreader", styles.Logo)}
	if m.user != "" {
		parts = append(parts, bg.Render("●", styles.SuccessText)+bg.Space()+bg.Render(m.user, styles.Text))
	} else {
		parts = append(parts, bg.Render("● signed out", styles.MutedText))
	}
	parts = append(parts, bg.Render("View:", styles.MutedText)+bg.Space()+bg.Render(m.viewLabel(), styles.AccentText))

	if l := m.activeList(); m.view == ViewArticles || m.view == ViewFavorites {
		if len(l.items) > 0 {
			parts = append(parts, bg.Render("Loaded:", styles.MutedText)+bg.Space()+
				bg.Render(strconv.Itoa(len(l.items)), styles.Text))
		}
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) viewLabel() string {
	switch m.view {
	case ViewLogin:
		return ternary(m.login.registerMode(), "Register", "Sign in")
	case ViewArticles:
		return "Articles"
	case ViewFavorites:
		return "Favorites"
	case ViewDetail:
		return "Detail"
	case ViewLogs:
		return "Log"
	default:
		return ""
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case ViewLogin:
		commands = []cmd{
			{"enter", ternary(m.login.registerMode(), "Register", "Sign in")},
			{"tab", "Next field"},
			{"ctrl+r", ternary(m.login.registerMode(), "Sign in instead", "Register instead")},
			{"ctrl+c", "Quit"},
		}
	case ViewDetail:
		commands = []cmd{
			{"c", "Collect"},
			{"o", "Full text"},
			{"s", "Save"},
			{"j/k", "Scroll"},
			{"esc", "Back"},
			{"l", "Log"},
			{"?", "More"},
		}
	case ViewLogs:
		commands = []cmd{
			{"Space", ternary(m.logs.follow, "Pause", "Follow")},
			{"r", "Reload"},
			{"j/k", "Scroll"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default:
		other := cmd{"f", "Favorites"}
		if m.view == ViewFavorites {
			other = cmd{"a", "Articles"}
		}
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"c", "Collect"},
			{"n", "More"},
			{"r", "Refresh"},
			other,
			{"l", "Log"},
			{"L", "Sign out"},
			{"?", "Help"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if m.view != ViewLogin {
		segments = append(segments,
			bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine renders the spinner and the current notice.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var parts []string
	if m.busy() {
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Working...", styles.MutedText))
	}
	if m.notice != "" {
		style := styles.InfoText
		if m.noticeErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.notice, maxInt(m.width-16, 10)), style))
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Render(strings.Join(parts, bg.Spaces(2)))
}
