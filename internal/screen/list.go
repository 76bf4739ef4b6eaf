package screen

import (
	"context"
	"fmt"

	"github.com/five82/wanreader/internal/collect"
	"github.com/five82/wanreader/internal/pager"
	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

// Source names the list a List controller pages through.
type Source int

const (
	SourceArticles Source = iota
	SourceFavorites
)

func (s Source) String() string {
	switch s {
	case SourceArticles:
		return "articles"
	case SourceFavorites:
		return "favorites"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Toggled reports the new collected flag of one list item.
type Toggled struct {
	ID        int
	Collected bool
}

// List pages through articles or favorites. Items accumulates every page
// loaded since the last refresh.
type List struct {
	*session
	api        wan.API
	source     Source
	reconciler *collect.Reconciler

	cursor  pager.Cursor
	items   []wan.Article
	over    bool
	pages   state.Holder[wan.ArticlePage]
	toggles state.Holder[Toggled]
}

// NewArticles returns a controller for the home article list.
func NewArticles(ctx context.Context, deps Deps) *List {
	return newList(ctx, deps, SourceArticles)
}

// NewFavorites returns a controller for the signed-in user's favorites.
func NewFavorites(ctx context.Context, deps Deps) *List {
	return newList(ctx, deps, SourceFavorites)
}

func newList(ctx context.Context, deps Deps, source Source) *List {
	return &List{
		session:    newSession(ctx, source.String(), deps),
		api:        deps.API,
		source:     source,
		reconciler: collect.NewReconciler(deps.API),
	}
}

// Source returns which list this controller pages through.
func (l *List) Source() Source { return l.source }

// State is the page fetch operation.
func (l *List) State() *state.Holder[wan.ArticlePage] { return &l.pages }

// ToggleState is the collect toggle operation for list items.
func (l *List) ToggleState() *state.Holder[Toggled] { return &l.toggles }

// Page returns the page the next Load without refresh will request.
func (l *List) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor.Current()
}

// Items returns a copy of the accumulated items.
func (l *List) Items() []wan.Article {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]wan.Article, len(l.items))
	copy(out, l.items)
	return out
}

// Exhausted reports whether the last loaded page was the final one.
func (l *List) Exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.over
}

// Load fetches the page under the cursor. With refresh the cursor goes back
// to 0 first. The cursor advances only when the fetch succeeds.
func (l *List) Load(refresh bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if refresh {
		l.cursor.Reset()
	}
	page := l.cursor.Current()

	launch(l.session, fmt.Sprintf("load page %d", page), &l.pages, func(ctx context.Context) result.Outcome[wan.ArticlePage] {
		return l.fetch(ctx, page)
	}, func(p wan.ArticlePage) {
		if page == 0 {
			l.items = nil
		}
		l.items = append(l.items, p.Datas...)
		l.over = p.Over
		l.cursor.Advance()
	})
}

func (l *List) fetch(ctx context.Context, page int) result.Outcome[wan.ArticlePage] {
	switch l.source {
	case SourceArticles:
		env, err := l.api.ListArticles(ctx, page)
		return result.FromEnvelope(env, err)
	case SourceFavorites:
		env, err := l.api.ListFavorites(ctx, page)
		return result.Then(result.FromEnvelope(env, err), wan.ArticlePage.MarkCollected)
	default:
		panic(fmt.Sprintf("screen: unknown list source %d", int(l.source)))
	}
}

// Toggle flips the collected flag of item. It returns false without doing
// anything while a previous toggle is still in flight.
func (l *List) Toggle(item wan.Article) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.toggles.Current().Phase == state.Loading {
		return false
	}
	launch(l.session, fmt.Sprintf("toggle %d", item.ID), &l.toggles, func(ctx context.Context) result.Outcome[Toggled] {
		return result.Then(l.reconciler.Toggle(ctx, item.ID, item.OriginID, item.Collect), func(collected bool) Toggled {
			return Toggled{ID: item.ID, Collected: collected}
		})
	}, func(t Toggled) {
		for i := range l.items {
			if l.items[i].ID == t.ID {
				l.items[i].Collect = t.Collected
			}
		}
	})
	return true
}
