package screen

import (
	"context"
	"errors"

	"github.com/five82/wanreader/internal/collect"
	"github.com/five82/wanreader/internal/export"
	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/state"
	"github.com/five82/wanreader/internal/wan"
)

var (
	errNoReader   = errors.New("reader mode is not available")
	errNoExporter = errors.New("export is not configured")
)

// Detail shows one article and lets the user collect it, pull its full
// text and save it as markdown.
type Detail struct {
	*session
	reconciler *collect.Reconciler
	reader     *render.Reader
	exporter   *export.Exporter

	article wan.Article
	page    *render.Page

	toggle  state.Holder[bool]
	reading state.Holder[render.Page]
	saving  state.Holder[string]
}

// NewDetail returns a controller for article.
func NewDetail(ctx context.Context, deps Deps, article wan.Article) *Detail {
	return &Detail{
		session:    newSession(ctx, "detail", deps),
		reconciler: collect.NewReconciler(deps.API),
		reader:     deps.Reader,
		exporter:   deps.Exporter,
		article:    article,
	}
}

// Article returns the article with its latest collected flag.
func (d *Detail) Article() wan.Article {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.article
}

// Page returns the extracted full text, if any.
func (d *Detail) Page() (render.Page, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.page == nil {
		return render.Page{}, false
	}
	return *d.page, true
}

// ToggleState is the collect toggle operation.
func (d *Detail) ToggleState() *state.Holder[bool] { return &d.toggle }

// ReadState is the full-text fetch.
func (d *Detail) ReadState() *state.Holder[render.Page] { return &d.reading }

// SaveState is the markdown export; its value is the written path.
func (d *Detail) SaveState() *state.Holder[string] { return &d.saving }

// Toggle flips the collected flag. It returns false while a previous toggle
// is still in flight.
func (d *Detail) Toggle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.toggle.Current().Phase == state.Loading {
		return false
	}
	a := d.article
	launch(d.session, "toggle", &d.toggle, func(ctx context.Context) result.Outcome[bool] {
		return d.reconciler.Toggle(ctx, a.ID, a.OriginID, a.Collect)
	}, func(collected bool) {
		d.article.Collect = collected
	})
	return true
}

// Read fetches the article's web page and extracts its readable text.
func (d *Detail) Read() {
	d.mu.Lock()
	defer d.mu.Unlock()

	link := d.article.Link
	launch(d.session, "read", &d.reading, func(ctx context.Context) result.Outcome[render.Page] {
		if d.reader == nil {
			return result.Failure[render.Page](errNoReader)
		}
		page, err := d.reader.Fetch(ctx, link)
		if err != nil {
			return result.Failure[render.Page](&result.TransportFault{Err: err})
		}
		return result.Success(page)
	}, func(p render.Page) {
		d.page = &p
	})
}

// Save writes the article, with its full text when already fetched, to the
// export directory.
func (d *Detail) Save() {
	d.mu.Lock()
	defer d.mu.Unlock()

	article := d.article
	var page *render.Page
	if d.page != nil {
		copied := *d.page
		page = &copied
	}
	launch(d.session, "save", &d.saving, func(context.Context) result.Outcome[string] {
		if d.exporter == nil {
			return result.Failure[string](errNoExporter)
		}
		path, err := d.exporter.Write(article, page)
		if err != nil {
			return result.Failure[string](err)
		}
		return result.Success(path)
	}, nil)
}
