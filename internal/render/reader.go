package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"
)

const (
	defaultReaderTimeout = 20 * time.Second
	maxPageBytes         = 8 << 20
)

// Page is the readable part of an article's web page.
type Page struct {
	Title    string
	Byline   string
	Markdown string
	FinalURL string
}

// Reader downloads article pages and extracts their readable content.
type Reader struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// NewReader builds a Reader. A nil client gets a default one with a 20s
// timeout.
func NewReader(client *http.Client, userAgent string, log zerolog.Logger) *Reader {
	if client == nil {
		client = &http.Client{Timeout: defaultReaderTimeout}
	}
	return &Reader{
		client:    client,
		userAgent: userAgent,
		log:       log.With().Str("component", "reader").Logger(),
	}
}

// Fetch downloads link and returns its readable content as markdown.
func (r *Reader) Fetch(ctx context.Context, link string) (Page, error) {
	target, err := url.Parse(strings.TrimSpace(link))
	if err != nil || target.Host == "" {
		return Page{}, fmt.Errorf("invalid article link %q", link)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return Page{}, fmt.Errorf("unsupported link scheme %q", target.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("page %s returned status %d", target.Host, resp.StatusCode)
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), final)
	if err != nil {
		return Page{}, fmt.Errorf("extract content: %w", err)
	}

	markdown, err := Markdown(article.Content)
	if err != nil {
		return Page{}, err
	}

	r.log.Debug().Str("url", final.String()).Int("chars", len(markdown)).Msg("page extracted")
	return Page{
		Title:    strings.TrimSpace(article.Title),
		Byline:   strings.TrimSpace(article.Byline),
		Markdown: markdown,
		FinalURL: final.String(),
	}, nil
}
