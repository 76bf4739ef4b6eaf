package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wanreader/internal/logtail"
)

// logView holds the in-app view of the log file.
type logView struct {
	viewport viewport.Model
	entries  []logtail.Entry
	follow   bool
	from     View
	err      string

	// gen invalidates refresh ticks scheduled by an earlier visit.
	gen int
}

type logLinesMsg struct {
	lines []string
	err   error
}

type logTickMsg struct {
	gen int
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func logTickCmd(gen int) tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(time.Time) tea.Msg {
		return logTickMsg{gen: gen}
	})
}

// openLogs switches to the log view and starts reading the file.
func (m Model) openLogs() (tea.Model, tea.Cmd) {
	m.logs.from = m.view
	m.logs.follow = true
	m.logs.gen++
	m.view = ViewLogs
	m.resizeLogs()
	return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(m.logs.gen))
}

func (m Model) handleLogTick(msg logTickMsg) (tea.Model, tea.Cmd) {
	if m.view != ViewLogs || msg.gen != m.logs.gen {
		return m, nil
	}
	if !m.logs.follow {
		return m, logTickCmd(msg.gen)
	}
	return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(msg.gen))
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logs.err = msg.err.Error()
		return
	}
	m.logs.err = ""
	m.logs.entries = logtail.ParseLines(msg.lines)
	m.refreshLogContent()
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewLogs):
		m.view = m.logs.from
		m.logs.gen++
		return m, nil
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, readLogsCmd(m.logPath)
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	if !m.logs.viewport.AtBottom() {
		m.logs.follow = false
	}
	return m, cmd
}

func (m *Model) resizeLogs() {
	if m.logs.viewport.Width == 0 {
		m.logs.viewport = viewport.New(maxInt(m.width-4, 10), maxInt(m.height-chromeHeight-2, 1))
	}
	m.logs.viewport.Width = maxInt(m.width-4, 10)
	m.logs.viewport.Height = maxInt(m.height-chromeHeight-2, 1)
	m.refreshLogContent()
}

// refreshLogContent re-renders the parsed entries into the viewport.
func (m *Model) refreshLogContent() {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	m.logs.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, formatLogEntry(e, styles, bg))
	}
	m.logs.viewport.SetContent(strings.Join(lines, "\n"))
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

// formatLogEntry colors one parsed line: timestamp, level, message, then
// key=value fields.
func formatLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" {
		return bg.Render(e.Message, styles.Text)
	}

	var b strings.Builder
	b.WriteString(bg.Render(e.Time, styles.FaintText))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(fmt.Sprintf("%-5s", e.Level), styles.LevelStyle(e.Level).Bold(true)))
	if e.Message != "" {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(e.Message, styles.Text))
	}
	for _, f := range e.Fields {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(f.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(f.Value, fieldStyle(f.Key, styles)))
	}
	return b.String()
}

func fieldStyle(key string, styles Styles) lipgloss.Style {
	switch key {
	case "error":
		return styles.DangerText
	case "component", "screen":
		return styles.AccentText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view with a one-line summary under the box.
func (m Model) renderLogs(height int) string {
	title := "Log"
	if m.logPath != "" {
		title = "Log " + truncateMiddle(m.logPath, maxInt(m.width/2, 20))
	}
	content := m.logs.viewport.View()
	if m.logs.err != "" {
		styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
		content = NewBgStyle(m.theme.FocusBg).Render("Cannot read log: "+m.logs.err, styles.DangerText)
	} else if len(m.logs.entries) == 0 {
		styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
		content = NewBgStyle(m.theme.FocusBg).Render("Log is empty", styles.FaintText)
	}
	return m.renderTitledBox(title, content, m.width, height, true)
}
