package wan

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// API is the transport surface the rest of the application depends on.
// Every call returns the raw envelope; interpreting errorCode is left to the
// caller.
type API interface {
	Login(ctx context.Context, username, password string) (Envelope[User], error)
	Register(ctx context.Context, username, password, repassword string) (Envelope[User], error)
	ListArticles(ctx context.Context, page int) (Envelope[ArticlePage], error)
	ListFavorites(ctx context.Context, page int) (Envelope[ArticlePage], error)
	Collect(ctx context.Context, id int) (Envelope[Ack], error)
	Uncollect(ctx context.Context, originID int) (Envelope[Ack], error)
	Logout(ctx context.Context) (Envelope[Ack], error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the WanAndroid HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	log       zerolog.Logger
}

const (
	DefaultBaseURL = "https://www.wanandroid.com/"
	DefaultTimeout = 30 * time.Second
	UserAgent      = "wanreader/0.1"
)

// Option customises a Client.
type Option func(*Client)

// WithJar installs the cookie jar that carries the login session.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) { c.http.Jar = jar }
}

// WithTimeout overrides the connect/read/write timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
			c.http.Transport = newTransport(d)
		}
	}
}

// WithRateLimit paces outgoing requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger attaches a request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "wan").Logger() }
}

// NewClient builds a Client for baseURL; an empty value uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: newTransport(DefaultTimeout),
		},
		userAgent: UserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Login posts the credentials to user/login.
func (c *Client) Login(ctx context.Context, username, password string) (Envelope[User], error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return call[User](ctx, c, http.MethodPost, "user/login", form)
}

// Register posts a new account to user/register.
func (c *Client) Register(ctx context.Context, username, password, repassword string) (Envelope[User], error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("repassword", repassword)
	return call[User](ctx, c, http.MethodPost, "user/register", form)
}

// ListArticles fetches one page of the public article feed. Pages start at 0.
func (c *Client) ListArticles(ctx context.Context, page int) (Envelope[ArticlePage], error) {
	if page < 0 {
		return Envelope[ArticlePage]{}, fmt.Errorf("page must be non-negative, got %d", page)
	}
	return call[ArticlePage](ctx, c, http.MethodGet, "article/list/"+strconv.Itoa(page)+"/json", nil)
}

// ListFavorites fetches one page of the logged-in user's favorites.
func (c *Client) ListFavorites(ctx context.Context, page int) (Envelope[ArticlePage], error) {
	if page < 0 {
		return Envelope[ArticlePage]{}, fmt.Errorf("page must be non-negative, got %d", page)
	}
	return call[ArticlePage](ctx, c, http.MethodGet, "lg/collect/list/"+strconv.Itoa(page)+"/json", nil)
}

// Collect favorites the article with the given list id.
func (c *Client) Collect(ctx context.Context, id int) (Envelope[Ack], error) {
	return call[Ack](ctx, c, http.MethodPost, "lg/collect/"+strconv.Itoa(id)+"/json", nil)
}

// Uncollect removes a favorite. The service keys this endpoint by origin id.
func (c *Client) Uncollect(ctx context.Context, originID int) (Envelope[Ack], error) {
	return call[Ack](ctx, c, http.MethodPost, "lg/uncollect_originId/"+strconv.Itoa(originID)+"/json", nil)
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) (Envelope[Ack], error) {
	return call[Ack](ctx, c, http.MethodGet, "user/logout/json", nil)
}

func call[T any](ctx context.Context, c *Client, method, path string, form url.Values) (Envelope[T], error) {
	if c == nil {
		return Envelope[T]{}, fmt.Errorf("client is nil")
	}
	var env Envelope[T]
	if err := c.do(ctx, method, path, form, &env); err != nil {
		return Envelope[T]{}, err
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for request slot: %w", err)
		}
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	var req *http.Request
	var err error
	if form != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newTransport(timeout time.Duration) *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	base.ResponseHeaderTimeout = timeout
	return base
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
