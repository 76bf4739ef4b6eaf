package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wanreader/internal/screen"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

// listView is the rendered side of one list controller.
type listView struct {
	ctrl        *screen.List
	items       []wan.Article
	selected    int
	exhausted   bool
	phase       state.Phase
	togglePhase state.Phase
}

func (l *listView) current() (wan.Article, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return wan.Article{}, false
	}
	return l.items[l.selected], true
}

// sync copies the controller's items. loadedFirst moves the selection back
// to the top after a refresh.
func (l *listView) sync(loadedFirst bool) {
	l.items = l.ctrl.Items()
	l.exhausted = l.ctrl.Exhausted()
	if loadedFirst {
		l.selected = 0
	}
	l.selected = clamp(l.selected, 0, len(l.items)-1)
}

func (l *listView) clear() {
	l.items = nil
	l.selected = 0
	l.exhausted = false
}

func loadCmd(ctrl *screen.List) tea.Cmd {
	return func() tea.Msg {
		ctrl.Load(true)
		return nil
	}
}

// activeList returns the list the current view shows, or the one the open
// detail came from.
func (m *Model) activeList() *listView {
	v := m.view
	if v == ViewDetail || v == ViewLogs {
		v = m.returnView()
	}
	if v == ViewFavorites {
		return &m.favorites
	}
	return &m.articles
}

// returnView is the list view that esc goes back to.
func (m *Model) returnView() View {
	if m.view == ViewDetail {
		return m.detail.from
	}
	if m.view == ViewLogs && m.logs.from != ViewLogs {
		return m.logs.from
	}
	return ViewArticles
}

func (m *Model) listFor(src source) *listView {
	switch src {
	case srcFavorites, srcFavoritesToggle:
		return &m.favorites
	default:
		return &m.articles
	}
}

// handleListKey processes keyboard input for the article and favorite lists.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	switch {
	case key.Matches(msg, m.keys.Down):
		if l.selected < len(l.items)-1 {
			l.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if l.selected > 0 {
			l.selected--
		}
	case key.Matches(msg, m.keys.Top):
		l.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		l.selected = maxInt(len(l.items)-1, 0)

	case key.Matches(msg, m.keys.NextPage):
		if l.exhausted {
			m.setInfo("No more articles")
			return m, nil
		}
		l.ctrl.Load(false)

	case key.Matches(msg, m.keys.Refresh):
		l.ctrl.Load(true)

	case key.Matches(msg, m.keys.ViewFavorites):
		if m.view != ViewFavorites {
			m.view = ViewFavorites
			m.favorites.ctrl.Load(true)
		}

	case key.Matches(msg, m.keys.ViewArticles), key.Matches(msg, m.keys.Escape):
		if m.view != ViewArticles {
			m.view = ViewArticles
			m.articles.ctrl.Load(true)
		}

	case key.Matches(msg, m.keys.Toggle):
		item, ok := l.current()
		if !ok {
			return m, nil
		}
		if !l.ctrl.Toggle(item) {
			m.setInfo("Still waiting for the previous change")
		}

	case key.Matches(msg, m.keys.Open):
		item, ok := l.current()
		if !ok {
			return m, nil
		}
		return m.openDetail(item)
	}
	return m, nil
}

// handlePage follows page loads of either list.
func (m Model) handlePage(msg stateMsg[wan.ArticlePage]) (tea.Model, tea.Cmd) {
	l := m.listFor(msg.src)
	l.phase = msg.state.Phase
	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		l.sync(l.ctrl.Page() == 1)
	}
	return m, msg.next()
}

// handleListToggle follows collect toggles started from a list.
func (m Model) handleListToggle(msg stateMsg[screen.Toggled]) (tea.Model, tea.Cmd) {
	l := m.listFor(msg.src)
	l.togglePhase = msg.state.Phase
	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		l.sync(false)
		m.setInfo(ternary(msg.state.Value.Collected, "Collected", "Removed from favorites"))
	}
	return m, msg.next()
}

// renderList renders one list inside a titled box, keeping the selection
// in view.
func (m Model) renderList(l *listView, title string, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	innerWidth := maxInt(m.width-2, 10)
	rows := maxInt(height-2, 1)

	boxTitle := fmt.Sprintf("%s (%d)", title, len(l.items))
	if l.exhausted && len(l.items) > 0 {
		boxTitle += " end"
	}

	if len(l.items) == 0 {
		empty := "No articles yet. Press r to load."
		if l.phase == state.Loading {
			empty = "Loading..."
		}
		return m.renderTitledBox(boxTitle, bg.Render(empty, styles.FaintText), m.width, height, true)
	}

	start := 0
	if l.selected >= rows {
		start = l.selected - rows + 1
	}
	end := minInt(start+rows, len(l.items))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.formatListRow(l.items[i], innerWidth, i == l.selected, styles, bg))
	}
	return m.renderTitledBox(boxTitle, strings.Join(lines, "\n"), m.width, height, true)
}

// formatListRow renders one article row: collected marker, title, then
// byline, chapter and date as the width allows.
func (m Model) formatListRow(a wan.Article, width int, selected bool, styles Styles, bg BgStyle) string {
	marker := "  "
	if a.Collect {
		marker = "★ "
	}

	var meta []string
	if m.width >= LayoutCompactWidth {
		if by := a.Byline(); by != "" {
			meta = append(meta, by)
		}
		if m.width >= LayoutWideWidth {
			if ch := a.Chapter(); ch != "" {
				meta = append(meta, ch)
			}
		}
		if a.NiceDate != "" {
			meta = append(meta, a.NiceDate)
		}
	}
	metaText := strings.Join(meta, " · ")
	metaWidth := 0
	if metaText != "" {
		metaWidth = minInt(len([]rune(metaText))+2, width/2)
		metaText = fitWidth(metaText, metaWidth-2)
	}
	titleWidth := maxInt(width-2-metaWidth, 4)
	title := padRight(fitWidth(a.Title, titleWidth), titleWidth)

	if selected {
		line := marker + title
		if metaText != "" {
			line += "  " + metaText
		}
		return styles.Selected.Width(width).Render(line)
	}

	markerStyle := styles.CollectedText
	row := bg.Render(marker, markerStyle)
	if marker == "  " {
		row = bg.Spaces(2)
	}
	row += bg.Render(title, styles.Text)
	if metaText != "" {
		row += bg.Spaces(2) + bg.Render(metaText, styles.MutedText)
	}
	return row
}
