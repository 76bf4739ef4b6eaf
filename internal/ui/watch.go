package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wanreader/internal/state"
)

// source says which holder a stateMsg came from.
type source int

const (
	srcLogin source = iota
	srcRegister
	srcArticles
	srcFavorites
	srcArticlesToggle
	srcFavoritesToggle
	srcDetailToggle
	srcDetailRead
	srcDetailSave
	srcLogout
)

// stateMsg carries one holder transition into the update loop. owner is the
// session ID of the controller that owns the holder.
type stateMsg[T any] struct {
	src   source
	owner string
	sub   *state.Subscription[T]
	state state.OperationState[T]
}

// watch waits for the next transition on sub. It yields no message once the
// subscription is closed, which ends the chain.
func watch[T any](src source, owner string, sub *state.Subscription[T]) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-sub.C()
		if !ok {
			return nil
		}
		return stateMsg[T]{src: src, owner: owner, sub: sub, state: st}
	}
}

// next re-arms the watch for the following transition.
func (msg stateMsg[T]) next() tea.Cmd {
	return watch(msg.src, msg.owner, msg.sub)
}

// subscribe opens a subscription on h and returns the first watch command
// together with the subscription so the caller can close it later.
func subscribe[T any](src source, owner string, h *state.Holder[T]) (tea.Cmd, *state.Subscription[T]) {
	sub := h.Subscribe()
	return watch(src, owner, sub), sub
}
