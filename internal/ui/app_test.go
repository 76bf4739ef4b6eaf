package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/wanreader/internal/prefs"
	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/screen"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/task"
	"github.com/five82/wanreader/internal/wan"
)

type stubAPI struct {
	mu        sync.Mutex
	logins    int
	registers int
	pages     []int
	favPages  []int
	collected []int
}

func (s *stubAPI) Login(_ context.Context, username, _ string) (wan.Envelope[wan.User], error) {
	s.mu.Lock()
	s.logins++
	s.mu.Unlock()
	return wan.Envelope[wan.User]{Data: &wan.User{Username: username, Nickname: "Alice W"}}, nil
}

func (s *stubAPI) Register(_ context.Context, username, _, _ string) (wan.Envelope[wan.User], error) {
	s.mu.Lock()
	s.registers++
	s.mu.Unlock()
	return wan.Envelope[wan.User]{Data: &wan.User{Username: username}}, nil
}

func (s *stubAPI) ListArticles(_ context.Context, page int) (wan.Envelope[wan.ArticlePage], error) {
	s.mu.Lock()
	s.pages = append(s.pages, page)
	s.mu.Unlock()
	return articlePage(page, 3, false), nil
}

func (s *stubAPI) ListFavorites(_ context.Context, page int) (wan.Envelope[wan.ArticlePage], error) {
	s.mu.Lock()
	s.favPages = append(s.favPages, page)
	s.mu.Unlock()
	return articlePage(page, 2, true), nil
}

func (s *stubAPI) Collect(_ context.Context, id int) (wan.Envelope[wan.Ack], error) {
	s.mu.Lock()
	s.collected = append(s.collected, id)
	s.mu.Unlock()
	return wan.Envelope[wan.Ack]{}, nil
}

func (s *stubAPI) Uncollect(context.Context, int) (wan.Envelope[wan.Ack], error) {
	return wan.Envelope[wan.Ack]{}, nil
}

func (s *stubAPI) Logout(context.Context) (wan.Envelope[wan.Ack], error) {
	return wan.Envelope[wan.Ack]{}, nil
}

func (s *stubAPI) counts() (logins, registers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins, s.registers
}

func articlePage(page, n int, over bool) wan.Envelope[wan.ArticlePage] {
	p := wan.ArticlePage{CurPage: page + 1, Over: over}
	for i := 0; i < n; i++ {
		id := page*100 + i + 1
		p.Datas = append(p.Datas, wan.Article{ID: id, Title: fmt.Sprintf("Article %d", id), Link: "https://example.com"})
	}
	return wan.Envelope[wan.ArticlePage]{Data: &p}
}

func newTestModel(t *testing.T, api wan.API, signedIn bool) Model {
	t.Helper()
	exec := task.NewExecutor(2)
	m := New(Options{
		Context:   context.Background(),
		Deps:      screen.Deps{API: api, Exec: exec, Log: zerolog.Nop()},
		SignedIn:  signedIn,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m.width, m.height, m.ready = 120, 40, true
	t.Cleanup(m.Shutdown)
	return m
}

// settle waits for the latest attempt on h to finish and returns its state
// as the update loop would receive it.
func settle[T any](t *testing.T, src source, h *state.Holder[T]) stateMsg[T] {
	t.Helper()
	seq := h.Current().Seq
	sub := h.Subscribe()
	defer sub.Close()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st := <-sub.C():
			if st.Seq == seq && st.Terminal() {
				return stateMsg[T]{src: src, state: st}
			}
		case <-timeout:
			t.Fatalf("operation did not finish; last state %+v", h.Current())
		}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitLogin_InvalidInputNeverReachesCore(t *testing.T) {
	cases := []struct {
		name     string
		register bool
		user     string
		pass     string
		confirm  string
		want     error
	}{
		{"empty_username", false, "", "pw", "", ErrEmptyUsername},
		{"empty_password", false, "alice", "", "", ErrEmptyPassword},
		{"register_mismatch", true, "alice", "pw1", "pw2", ErrPasswordMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubAPI{}
			m := newTestModel(t, api, false)
			if tc.register {
				m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
			}
			m.login.inputs[usernameField].SetValue(tc.user)
			m.login.inputs[passwordField].SetValue(tc.pass)
			m.login.inputs[confirmField].SetValue(tc.confirm)

			m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

			if !m.noticeErr || m.notice != tc.want.Error() {
				t.Fatalf("notice = %q (err=%v), want %q", m.notice, m.noticeErr, tc.want)
			}
			if logins, registers := api.counts(); logins != 0 || registers != 0 {
				t.Fatalf("core called: logins=%d registers=%d", logins, registers)
			}
			if p := m.login.ctrl.LoginState().Current().Phase; p != state.Idle {
				t.Fatalf("login phase = %v, want Idle", p)
			}
			if p := m.login.ctrl.RegisterState().Current().Phase; p != state.Idle {
				t.Fatalf("register phase = %v, want Idle", p)
			}
			if m.view != ViewLogin {
				t.Fatalf("view = %v, want login", m.view)
			}
		})
	}
}

func TestLogin_SuccessNavigatesAndRemembersUsername(t *testing.T) {
	api := &stubAPI{}
	m := newTestModel(t, api, false)
	m.login.inputs[usernameField].SetValue("alice")
	m.login.inputs[passwordField].SetValue("secret")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, settle(t, srcLogin, m.login.ctrl.LoginState()))

	if m.view != ViewArticles {
		t.Fatalf("view = %v, want articles", m.view)
	}
	if m.user != "Alice W" {
		t.Fatalf("user = %q, want display name", m.user)
	}
	if got := m.login.inputs[passwordField].Value(); got != "" {
		t.Fatalf("password input kept %q", got)
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Username != "alice" {
		t.Fatalf("remembered username = %q, want alice", p.Username)
	}

	m = update(t, m, settle(t, srcArticles, m.articles.ctrl.State()))
	if len(m.articles.items) != 3 {
		t.Fatalf("items = %d, want 3", len(m.articles.items))
	}
}

func TestSwitchModeClearsPasswordsAndShowsConfirm(t *testing.T) {
	m := newTestModel(t, &stubAPI{}, false)
	m.login.inputs[passwordField].SetValue("pw")
	if m.login.fields() != 2 {
		t.Fatalf("login mode fields = %d, want 2", m.login.fields())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.login.ctrl.Mode() != screen.ModeRegister {
		t.Fatalf("mode = %v, want register", m.login.ctrl.Mode())
	}
	if m.login.fields() != 3 {
		t.Fatalf("register mode fields = %d, want 3", m.login.fields())
	}
	if m.login.inputs[passwordField].Value() != "" {
		t.Fatal("password not cleared")
	}
	if !strings.Contains(m.View(), "Confirm") {
		t.Fatal("register form does not show the confirm field")
	}
}

func TestList_NextPageAppendsAndRefreshResets(t *testing.T) {
	api := &stubAPI{}
	m := newTestModel(t, api, true)
	list := m.articles.ctrl

	m = update(t, m, keyRunes("r"))
	m = update(t, m, settle(t, srcArticles, list.State()))
	m = update(t, m, keyRunes("j"))
	if m.articles.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.articles.selected)
	}

	m = update(t, m, keyRunes("n"))
	m = update(t, m, settle(t, srcArticles, list.State()))
	if len(m.articles.items) != 6 {
		t.Fatalf("items after next page = %d, want 6", len(m.articles.items))
	}
	if m.articles.selected != 1 {
		t.Fatalf("selection moved on append: %d", m.articles.selected)
	}

	m = update(t, m, keyRunes("r"))
	m = update(t, m, settle(t, srcArticles, list.State()))
	if len(m.articles.items) != 3 || m.articles.selected != 0 {
		t.Fatalf("after refresh items=%d selected=%d, want 3 and 0", len(m.articles.items), m.articles.selected)
	}

	api.mu.Lock()
	pages := append([]int(nil), api.pages...)
	api.mu.Unlock()
	if fmt.Sprint(pages) != "[0 1 0]" {
		t.Fatalf("requested pages = %v, want [0 1 0]", pages)
	}
}

func TestList_ToggleCollectsSelected(t *testing.T) {
	api := &stubAPI{}
	m := newTestModel(t, api, true)
	list := m.articles.ctrl

	m = update(t, m, keyRunes("r"))
	m = update(t, m, settle(t, srcArticles, list.State()))
	m = update(t, m, keyRunes("c"))
	m = update(t, m, settle(t, srcArticlesToggle, list.ToggleState()))

	if !m.articles.items[0].Collect {
		t.Fatal("first item not marked collected")
	}
	if m.notice != "Collected" {
		t.Fatalf("notice = %q", m.notice)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.collected) != 1 || api.collected[0] != 1 {
		t.Fatalf("collected = %v, want [1]", api.collected)
	}
}

func TestDetail_EscReturnsAndRefreshesOriginList(t *testing.T) {
	api := &stubAPI{}
	m := newTestModel(t, api, true)

	m = update(t, m, keyRunes("f"))
	if m.view != ViewFavorites {
		t.Fatalf("view = %v, want favorites", m.view)
	}
	m = update(t, m, settle(t, srcFavorites, m.favorites.ctrl.State()))
	if len(m.favorites.items) != 2 || !m.favorites.items[0].Collect {
		t.Fatalf("favorites = %+v", m.favorites.items)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != ViewDetail || m.detail.ctrl == nil {
		t.Fatalf("view = %v, want detail", m.view)
	}
	if !strings.Contains(m.View(), "Article 1") {
		t.Fatal("detail does not show the article title")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ViewFavorites {
		t.Fatalf("view after esc = %v, want favorites", m.view)
	}
	if m.detail.ctrl != nil {
		t.Fatal("detail controller not closed")
	}
	settle(t, srcFavorites, m.favorites.ctrl.State())

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.favPages) != 2 {
		t.Fatalf("favorite page loads = %v, want a refresh after esc", api.favPages)
	}
}

func TestStaleDetailMessagesIgnored(t *testing.T) {
	m := newTestModel(t, &stubAPI{}, true)
	m.favorites.items = []wan.Article{{ID: 1, Title: "one"}}
	next, _ := m.openDetail(m.favorites.items[0])
	m = next.(Model)

	msg := stateMsg[bool]{src: srcDetailToggle, owner: "someone-else", state: state.OperationState[bool]{Phase: state.Error, Message: "boom"}}
	m = update(t, m, msg)
	if m.notice != "" {
		t.Fatalf("stale message surfaced: %q", m.notice)
	}
}

func TestErrorShownUntilNextKey(t *testing.T) {
	m := newTestModel(t, &stubAPI{}, true)
	msg := stateMsg[wan.ArticlePage]{src: srcArticles, state: state.OperationState[wan.ArticlePage]{Phase: state.Error, Message: "network down"}}
	m = update(t, m, msg)
	if !m.noticeErr || m.notice != "network down" {
		t.Fatalf("notice = %q", m.notice)
	}
	if !strings.Contains(m.View(), "network") {
		t.Fatal("status line does not show the error")
	}

	m = update(t, m, keyRunes("j"))
	if m.notice != "" {
		t.Fatalf("notice kept after key: %q", m.notice)
	}
}

func TestLogout_SuccessReturnsToLogin(t *testing.T) {
	m := newTestModel(t, &stubAPI{}, true)
	m.user = "alice"
	m.articles.items = []wan.Article{{ID: 1}}

	m = update(t, m, stateMsg[result.Unit]{src: srcLogout, state: state.OperationState[result.Unit]{Phase: state.Success}})
	if m.view != ViewLogin || m.user != "" {
		t.Fatalf("view=%v user=%q, want login and signed out", m.view, m.user)
	}
	if len(m.articles.items) != 0 {
		t.Fatal("article list kept after sign-out")
	}
}

func TestCycleThemePersists(t *testing.T) {
	m := newTestModel(t, &stubAPI{}, true)
	start := m.theme.Name
	m = update(t, m, keyRunes("T"))
	if m.theme.Name == start {
		t.Fatal("theme did not change")
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", p.Theme, m.theme.Name)
	}
}

func TestLogs_ReadParsesAndIgnoresStaleTicks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wanreader.log")
	content := "2026-10-19 09:12:44 INFO  request done component=wan path=/article/list/0/json\n" +
		"2026-10-19 09:12:45 WARN  failed component=screen error=\"timeout\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := newTestModel(t, &stubAPI{}, true)
	m.logPath = path
	next, _ := m.openLogs()
	m = next.(Model)
	if m.view != ViewLogs {
		t.Fatalf("view = %v, want logs", m.view)
	}

	m = update(t, m, readLogsCmd(path)())
	if len(m.logs.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.logs.entries))
	}
	if m.logs.entries[1].Level != "WARN" {
		t.Fatalf("level = %q, want WARN", m.logs.entries[1].Level)
	}

	if _, cmd := m.Update(logTickMsg{gen: m.logs.gen - 1}); cmd != nil {
		t.Fatal("stale tick rescheduled")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ViewArticles {
		t.Fatalf("view after esc = %v, want articles", m.view)
	}
}
