package screen

import (
	"context"
	"fmt"

	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

// Account signs the user out: the server session is ended and the stored
// cookies are forgotten.
type Account struct {
	*session
	api    wan.API
	forget func() error

	logout state.Holder[result.Unit]
}

// NewAccount returns an Account controller. forget clears the local session
// and may be nil.
func NewAccount(ctx context.Context, deps Deps, forget func() error) *Account {
	return &Account{session: newSession(ctx, "account", deps), api: deps.API, forget: forget}
}

// LogoutState is the sign-out operation.
func (a *Account) LogoutState() *state.Holder[result.Unit] { return &a.logout }

// Logout ends the session. Local cookies are cleared once the server
// acknowledges.
func (a *Account) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()

	launch(a.session, "logout", &a.logout, func(ctx context.Context) result.Outcome[result.Unit] {
		env, err := a.api.Logout(ctx)
		out := result.FromAck(env, err)
		if !out.OK() || a.forget == nil {
			return out
		}
		if err := a.forget(); err != nil {
			return result.Failure[result.Unit](fmt.Errorf("clear session: %w", err))
		}
		return out
	}, nil)
}
