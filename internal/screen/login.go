package screen

import (
	"context"

	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeRegister:
		return "register"
	default:
		return "unknown"
	}
}

// Login drives the sign-in and sign-up forms. Inputs are expected to be
// validated before they get here.
type Login struct {
	*session
	api wan.API

	mode     Mode
	login    state.Holder[wan.User]
	register state.Holder[wan.User]
}

// NewLogin returns a controller in login mode.
func NewLogin(ctx context.Context, deps Deps) *Login {
	return &Login{session: newSession(ctx, "login", deps), api: deps.API}
}

// Mode returns the active form.
func (l *Login) Mode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// SwitchMode flips between login and register and resets both operations so
// nothing from the previous form shows up in the new one.
func (l *Login) SwitchMode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mode == ModeLogin {
		l.mode = ModeRegister
	} else {
		l.mode = ModeLogin
	}
	l.login.Reset()
	l.register.Reset()
	l.log.Debug().Stringer("mode", l.mode).Msg("mode switched")
	return l.mode
}

// LoginState is the sign-in operation.
func (l *Login) LoginState() *state.Holder[wan.User] { return &l.login }

// RegisterState is the sign-up operation.
func (l *Login) RegisterState() *state.Holder[wan.User] { return &l.register }

// Login signs in.
func (l *Login) Login(username, password string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	launch(l.session, "login", &l.login, func(ctx context.Context) result.Outcome[wan.User] {
		env, err := l.api.Login(ctx, username, password)
		return result.FromEnvelope(env, err)
	}, nil)
}

// Register creates an account and signs in with it.
func (l *Login) Register(username, password, repassword string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	launch(l.session, "register", &l.register, func(ctx context.Context) result.Outcome[wan.User] {
		env, err := l.api.Register(ctx, username, password, repassword)
		return result.FromEnvelope(env, err)
	}, nil)
}
