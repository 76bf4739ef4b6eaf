package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wanreader/internal/screen"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

const (
	usernameField = iota
	passwordField
	confirmField
)

// loginForm holds the sign-in and sign-up inputs. The confirm field is only
// shown in register mode.
type loginForm struct {
	ctrl   *screen.Login
	inputs [3]textinput.Model
	focus  int

	loginPhase    state.Phase
	registerPhase state.Phase
}

func newLoginForm(ctrl *screen.Login, username string) loginForm {
	var inputs [3]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[usernameField].Placeholder = "username"
	inputs[usernameField].SetValue(username)
	inputs[passwordField].Placeholder = "password"
	inputs[passwordField].EchoMode = textinput.EchoPassword
	inputs[passwordField].EchoCharacter = '•'
	inputs[confirmField].Placeholder = "repeat password"
	inputs[confirmField].EchoMode = textinput.EchoPassword
	inputs[confirmField].EchoCharacter = '•'

	f := loginForm{ctrl: ctrl, inputs: inputs}
	if username != "" {
		f.focus = passwordField
	}
	f.applyFocus()
	return f
}

func (f *loginForm) registerMode() bool {
	return f.ctrl.Mode() == screen.ModeRegister
}

// fields is the number of inputs visible in the current mode.
func (f *loginForm) fields() int {
	if f.registerMode() {
		return 3
	}
	return 2
}

func (f *loginForm) applyFocus() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *loginForm) moveFocus(delta int) {
	n := f.fields()
	f.focus = ((f.focus+delta)%n + n) % n
	f.applyFocus()
}

func (f *loginForm) value(field int) string {
	return f.inputs[field].Value()
}

func blinkCmd() tea.Cmd {
	return textinput.Blink
}

// handleLoginKey processes keyboard input for the login form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.login
	switch {
	case key.Matches(msg, m.keys.SwitchMode):
		f.ctrl.SwitchMode()
		f.loginPhase, f.registerPhase = state.Idle, state.Idle
		f.inputs[passwordField].Reset()
		f.inputs[confirmField].Reset()
		f.focus = usernameField
		f.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		f.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		f.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitLogin()
	}
	return m.updateInputs(msg)
}

// submitLogin validates the form and hands it to the controller. Invalid
// input never reaches the controller.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	f := &m.login
	username := f.value(usernameField)
	password := f.value(passwordField)

	if f.ctrl.Mode() == screen.ModeRegister {
		confirm := f.value(confirmField)
		if err := ValidateRegister(username, password, confirm); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.username = username
		f.ctrl.Register(username, password, confirm)
		return m, nil
	}

	if err := ValidateLogin(username, password); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.username = username
	f.ctrl.Login(username, password)
	return m, nil
}

// updateInputs forwards a message to the focused input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := &m.login
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// handleAuth follows the login and register operations. Either success
// lands on the article list.
func (m Model) handleAuth(msg stateMsg[wan.User]) (tea.Model, tea.Cmd) {
	f := &m.login
	if msg.src == srcRegister {
		f.registerPhase = msg.state.Phase
	} else {
		f.loginPhase = msg.state.Phase
	}

	switch msg.state.Phase {
	case state.Error:
		m.setError(msg.state.Message)
	case state.Success:
		m.user = msg.state.Value.DisplayName()
		if m.user == "" {
			m.user = m.username
		}
		f.inputs[passwordField].Reset()
		f.inputs[confirmField].Reset()
		m.savePrefs()
		m.setInfo(ternary(msg.src == srcRegister, "Registered as ", "Signed in as ") + m.user)
		m.view = ViewArticles
		m.articles.ctrl.Load(true)
	}
	return m, msg.next()
}

// renderLogin renders the centered login or register form.
func (m Model) renderLogin(height int) string {
	f := m.login
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	register := f.ctrl.Mode() == screen.ModeRegister

	labels := []string{"Username", "Password", "Confirm"}
	var b strings.Builder
	b.WriteString(bg.Render(ternary(register, "Create an account", "Sign in to wanandroid"), styles.Text.Bold(true)))
	b.WriteString("\n\n")
	for i := 0; i < f.fields(); i++ {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(bg.Render(padRight(labels[i], 10), labelStyle))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(bg.Render("enter", styles.AccentText) + bg.Render(ternary(register, " register", " sign in"), styles.FaintText))
	b.WriteString(bg.Spaces(2))
	b.WriteString(bg.Render("ctrl+r", styles.AccentText) + bg.Render(ternary(register, " have an account?", " no account?"), styles.FaintText))

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Padding(1, 3).
		Width(minInt(60, maxInt(m.width-4, 20))).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		form,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}
