package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/screen"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

// detailView is the open article, if any.
type detailView struct {
	ctrl     *screen.Detail
	from     View
	subs     []closer
	viewport viewport.Model

	togglePhase state.Phase
	readPhase   state.Phase
	savePhase   state.Phase
}

// openDetail builds a Detail controller for item and starts watching it.
func (m Model) openDetail(item wan.Article) (tea.Model, tea.Cmd) {
	m.closeDetail()

	ctrl := screen.NewDetail(m.ctx, m.deps, item)
	toggleCmd, toggleSub := subscribe(srcDetailToggle, ctrl.ID(), ctrl.ToggleState())
	readCmd, readSub := subscribe(srcDetailRead, ctrl.ID(), ctrl.ReadState())
	saveCmd, saveSub := subscribe(srcDetailSave, ctrl.ID(), ctrl.SaveState())

	m.detail = detailView{
		ctrl:     ctrl,
		from:     m.view,
		subs:     []closer{toggleSub, readSub, saveSub},
		viewport: viewport.New(maxInt(m.width-4, 10), maxInt(m.height-chromeHeight-2, 1)),
	}
	m.view = ViewDetail
	m.refreshDetail()
	return m, tea.Batch(toggleCmd, readCmd, saveCmd)
}

// closeDetail stops the open detail controller and its subscriptions.
func (m *Model) closeDetail() {
	if m.detail.ctrl == nil {
		return
	}
	for _, sub := range m.detail.subs {
		sub.Close()
	}
	m.detail.ctrl.Close()
	m.detail = detailView{}
}

// leaveDetail returns to the list the detail was opened from and refreshes
// it, since the collected flag may have changed.
func (m Model) leaveDetail() (tea.Model, tea.Cmd) {
	from := m.detail.from
	m.closeDetail()
	if from != ViewFavorites {
		from = ViewArticles
	}
	m.view = from
	m.activeList().ctrl.Load(true)
	return m, nil
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.detail.ctrl
	if d == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.leaveDetail()
	case key.Matches(msg, m.keys.Toggle):
		if !d.Toggle() {
			m.setInfo("Still waiting for the previous change")
		}
		return m, nil
	case key.Matches(msg, m.keys.Read):
		d.Read()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		d.Save()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// ours reports whether a detail message belongs to the open controller.
func (m Model) ours(owner string) bool {
	return m.detail.ctrl != nil && m.detail.ctrl.ID() == owner
}

func (m Model) handleDetailToggle(msg stateMsg[bool]) (tea.Model, tea.Cmd) {
	if !m.ours(msg.owner) {
		return m, msg.next()
	}
	m.detail.togglePhase = msg.state.Phase
	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		m.setInfo(ternary(msg.state.Value, "Collected", "Removed from favorites"))
		m.refreshDetail()
	}
	return m, msg.next()
}

func (m Model) handleRead(msg stateMsg[render.Page]) (tea.Model, tea.Cmd) {
	if !m.ours(msg.owner) {
		return m, msg.next()
	}
	m.detail.readPhase = msg.state.Phase
	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		m.refreshDetail()
		m.detail.viewport.GotoTop()
	}
	return m, msg.next()
}

func (m Model) handleSave(msg stateMsg[string]) (tea.Model, tea.Cmd) {
	if !m.ours(msg.owner) {
		return m, msg.next()
	}
	m.detail.savePhase = msg.state.Phase
	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		m.setInfo("Saved " + truncateMiddle(msg.state.Value, 60))
	}
	return m, msg.next()
}

func (m *Model) resizeDetail() {
	if m.detail.ctrl == nil {
		return
	}
	m.detail.viewport.Width = maxInt(m.width-4, 10)
	m.detail.viewport.Height = maxInt(m.height-chromeHeight-2, 1)
	m.refreshDetail()
}

// refreshDetail re-renders the article into the viewport.
func (m *Model) refreshDetail() {
	if m.detail.ctrl == nil {
		return
	}
	width := maxInt(m.detail.viewport.Width, 10)
	page, fetched := m.detail.ctrl.Page()
	m.detail.viewport.SetContent(m.detailContent(m.detail.ctrl.Article(), page, fetched, width))
}

// detailContent lays out the article header followed by the full text when
// fetched, or the description otherwise.
func (m Model) detailContent(a wan.Article, page render.Page, fetched bool, width int) string {
	styles := m.theme.Styles()
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(wrap.Render(styles.Text.Bold(true).Render(a.Title)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.MutedText.Render(padRight(label, 10)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	field("Author", a.Byline())
	field("Date", a.NiceDate)
	field("Chapter", a.Chapter())
	field("Link", a.Link)
	if a.Collect {
		b.WriteString(styles.MutedText.Render(padRight("Status", 10)))
		b.WriteString(styles.CollectedText.Render("★ collected"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", minInt(width, 60))))
	b.WriteString("\n\n")

	body := ""
	switch {
	case fetched:
		body = page.Markdown
	case strings.TrimSpace(a.Desc) != "":
		md, err := render.Markdown(a.Desc)
		if err != nil {
			md = render.PlainText(a.Desc)
		}
		body = md
	}
	if body == "" {
		b.WriteString(styles.FaintText.Render("No description. Press o to fetch the full text."))
	} else {
		b.WriteString(wrap.Render(styles.Text.Render(body)))
	}
	return b.String()
}

// renderDetail renders the detail view.
func (m Model) renderDetail(height int) string {
	if m.detail.ctrl == nil {
		return ""
	}
	title := ternary(m.detail.from == ViewFavorites, "Favorite", "Article")
	if _, fetched := m.detail.ctrl.Page(); fetched {
		title += " full text"
	}
	return m.renderTitledBox(title, m.detail.viewport.View(), m.width, height, true)
}
