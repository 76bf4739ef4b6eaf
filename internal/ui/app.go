package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wanreader/internal/prefs"
	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/screen"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewArticles
	ViewFavorites
	ViewDetail
	ViewLogs
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewArticles:
		return "articles"
	case ViewFavorites:
		return "favorites"
	case ViewDetail:
		return "detail"
	case ViewLogs:
		return "logs"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// Options configures the UI.
type Options struct {
	Context context.Context
	Deps    screen.Deps

	// Forget clears the stored session after a successful sign-out.
	Forget func() error

	// SignedIn starts on the article list instead of the login form.
	SignedIn bool

	ThemeName string
	Username  string
	PrefsPath string
	LogPath   string
}

type closer interface{ Close() }

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	deps      screen.Deps
	prefsPath string
	logPath   string

	// UI state
	theme    Theme
	keys     keyMap
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	// Session
	username string
	user     string

	// Status line. An error is shown until the next key press.
	notice    string
	noticeErr bool

	// Screens
	login       loginForm
	articles    listView
	favorites   listView
	detail      detailView
	logs        logView
	account     *screen.Account
	logoutPhase state.Phase

	// App-lifetime subscriptions and their first watch commands.
	subs     []closer
	initCmds []tea.Cmd
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:       ctx,
		deps:      opts.Deps,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		view:      ViewLogin,
		spinner:   sp,
		username:  opts.Username,
		user:      opts.Username,
		login:     newLoginForm(screen.NewLogin(ctx, opts.Deps), opts.Username),
		articles:  listView{ctrl: screen.NewArticles(ctx, opts.Deps)},
		favorites: listView{ctrl: screen.NewFavorites(ctx, opts.Deps)},
		account:   screen.NewAccount(ctx, opts.Deps, opts.Forget),
		logs:      logView{follow: true},
	}
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))

	m.watchHolder(subscribe(srcLogin, m.login.ctrl.ID(), m.login.ctrl.LoginState()))
	m.watchHolder(subscribe(srcRegister, m.login.ctrl.ID(), m.login.ctrl.RegisterState()))
	m.watchHolder(subscribe(srcArticles, m.articles.ctrl.ID(), m.articles.ctrl.State()))
	m.watchHolder(subscribe(srcArticlesToggle, m.articles.ctrl.ID(), m.articles.ctrl.ToggleState()))
	m.watchHolder(subscribe(srcFavorites, m.favorites.ctrl.ID(), m.favorites.ctrl.State()))
	m.watchHolder(subscribe(srcFavoritesToggle, m.favorites.ctrl.ID(), m.favorites.ctrl.ToggleState()))
	m.watchHolder(subscribe(srcLogout, m.account.ID(), m.account.LogoutState()))

	if opts.SignedIn {
		m.view = ViewArticles
	}
	return m
}

func (m *Model) watchHolder(cmd tea.Cmd, sub closer) {
	m.initCmds = append(m.initCmds, cmd)
	m.subs = append(m.subs, sub)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		m.spinner.Tick,
	}
	cmds = append(cmds, m.initCmds...)
	if m.view == ViewLogin {
		cmds = append(cmds, blinkCmd())
	} else {
		cmds = append(cmds, loadCmd(m.articles.ctrl))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeDetail()
		m.resizeLogs()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg[wan.User]:
		return m.handleAuth(msg)

	case stateMsg[wan.ArticlePage]:
		return m.handlePage(msg)

	case stateMsg[screen.Toggled]:
		return m.handleListToggle(msg)

	case stateMsg[bool]:
		return m.handleDetailToggle(msg)

	case stateMsg[render.Page]:
		return m.handleRead(msg)

	case stateMsg[string]:
		return m.handleSave(msg)

	case stateMsg[result.Unit]:
		return m.handleLogout(msg)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case logTickMsg:
		return m.handleLogTick(msg)
	}

	if m.view == ViewLogin {
		return m.updateInputs(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	m.clearNotice()

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The login form takes printable keys as text.
	if m.view == ViewLogin {
		return m.handleLoginKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.savePrefs()
		m.refreshDetail()
		m.refreshLogContent()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs) && m.view != ViewLogs:
		return m.openLogs()

	case key.Matches(msg, m.keys.Logout):
		m.account.Logout()
		return m, nil
	}

	switch m.view {
	case ViewArticles, ViewFavorites:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// handleLogout follows the sign-out operation.
func (m Model) handleLogout(msg stateMsg[result.Unit]) (tea.Model, tea.Cmd) {
	m.logoutPhase = msg.state.Phase
	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		m.closeDetail()
		m.articles.clear()
		m.favorites.clear()
		m.user = ""
		m.view = ViewLogin
		m.login.inputs[passwordField].Reset()
		m.login.inputs[confirmField].Reset()
		m.setInfo("Signed out")
	}
	return m, msg.next()
}

// savePrefs stores the theme and remembered username. Failures are not
// fatal; the next change tries again.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Username: m.username})
	if err != nil {
		m.deps.Log.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences")
	}
}

func (m *Model) setError(message string) {
	m.notice = message
	m.noticeErr = true
}

func (m *Model) setInfo(message string) {
	m.notice = message
	m.noticeErr = false
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeErr = false
}

// busy reports whether any operation the current view shows is in flight.
func (m Model) busy() bool {
	if m.logoutPhase == state.Loading {
		return true
	}
	switch m.view {
	case ViewLogin:
		return m.login.loginPhase == state.Loading || m.login.registerPhase == state.Loading
	case ViewArticles:
		return m.articles.phase == state.Loading || m.articles.togglePhase == state.Loading
	case ViewFavorites:
		return m.favorites.phase == state.Loading || m.favorites.togglePhase == state.Loading
	case ViewDetail:
		d := m.detail
		return d.togglePhase == state.Loading || d.readPhase == state.Loading || d.savePhase == state.Loading
	}
	return false
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	height := maxInt(m.height-chromeHeight, 3)
	switch m.view {
	case ViewLogin:
		return m.renderLogin(height)
	case ViewArticles:
		return m.renderList(&m.articles, "Articles", height)
	case ViewFavorites:
		return m.renderList(&m.favorites, "Favorites", height)
	case ViewDetail:
		return m.renderDetail(height)
	case ViewLogs:
		return m.renderLogs(height)
	default:
		return ""
	}
}

// Shutdown detaches every subscription and cancels every controller. It is
// called once the program has exited.
func (m Model) Shutdown() {
	m.closeDetail()
	for _, sub := range m.subs {
		sub.Close()
	}
	m.login.ctrl.Close()
	m.articles.ctrl.Close()
	m.favorites.ctrl.Close()
	m.account.Close()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Shutdown()
	} else {
		m.Shutdown()
	}
	return err
}
