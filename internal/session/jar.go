// Package session persists the service's login cookies across restarts.
// Cookies are stored by name in a TOML file next to the user's config.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// Jar is an http.CookieJar that writes every cookie it receives to disk and
// loads them back on Open. Matching rules are those of net/http/cookiejar.
type Jar struct {
	path string
	log  zerolog.Logger

	mu      sync.Mutex
	inner   *cookiejar.Jar
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	Value     string `toml:"value"`
	Host      string `toml:"host"`
	ExpiresAt int64  `toml:"expires_at"` // unix millis, 0 for session cookies
}

type file struct {
	Cookies map[string]entry `toml:"cookies"`
}

var _ http.CookieJar = (*Jar)(nil)

// Open loads the jar stored at path. A missing file yields an empty jar.
func Open(path string, log zerolog.Logger) (*Jar, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cookie path is empty")
	}
	j := &Jar{
		path:    path,
		log:     log.With().Str("component", "session").Logger(),
		entries: make(map[string]entry),
		now:     time.Now,
	}
	if err := j.resetInner(); err != nil {
		return nil, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return j, nil
		}
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	var stored file
	if err := toml.Unmarshal(bytes, &stored); err != nil {
		return nil, fmt.Errorf("parse cookies: %w", err)
	}

	byHost := make(map[string][]*http.Cookie)
	for name, e := range stored.Cookies {
		if e.expired(j.now()) || e.Host == "" {
			continue
		}
		j.entries[name] = e
		byHost[e.Host] = append(byHost[e.Host], e.cookie(name))
	}
	for host, cookies := range byHost {
		j.inner.SetCookies(&url.URL{Scheme: "https", Host: host, Path: "/"}, cookies)
	}
	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	now := j.now()
	for _, c := range cookies {
		e := entry{Value: c.Value, Host: u.Hostname()}
		switch {
		case c.MaxAge < 0:
			delete(j.entries, c.Name)
			continue
		case c.MaxAge > 0:
			e.ExpiresAt = now.Add(time.Duration(c.MaxAge) * time.Second).UnixMilli()
		case !c.Expires.IsZero():
			e.ExpiresAt = c.Expires.UnixMilli()
		}
		if e.expired(now) {
			delete(j.entries, c.Name)
			continue
		}
		j.entries[c.Name] = e
	}
	if err := j.save(); err != nil {
		j.log.Warn().Err(err).Str("path", j.path).Msg("persist cookies failed")
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Names lists the stored cookie names in sorted order.
func (j *Jar) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	names := make([]string, 0, len(j.entries))
	for name, e := range j.entries {
		if !e.expired(now) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clear forgets every cookie and removes the file.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = make(map[string]entry)
	if err := j.resetInner(); err != nil {
		return err
	}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cookies: %w", err)
	}
	return nil
}

func (j *Jar) resetInner() error {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	j.inner = inner
	return nil
}

// save must be called with mu held.
func (j *Jar) save() error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}
	bytes, err := toml.Marshal(file{Cookies: j.entries})
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("replace cookies: %w", err)
	}
	return nil
}

func (e entry) expired(now time.Time) bool {
	return e.ExpiresAt != 0 && now.UnixMilli() >= e.ExpiresAt
}

func (e entry) cookie(name string) *http.Cookie {
	c := &http.Cookie{Name: name, Value: e.Value, Path: "/"}
	if e.ExpiresAt != 0 {
		c.Expires = time.UnixMilli(e.ExpiresAt)
	}
	return c
}
