package api

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// CookieStore persists the refresh cookie between processes. A TokenStore
// that also implements it gets a jar whose refresh cookie survives restarts.
type CookieStore interface {
	RefreshCookie(ctx context.Context) (string, error)
	SetRefreshCookie(ctx context.Context, value string) error
}

// storedJar mirrors the cookies scoped to the refresh endpoint into a
// CookieStore after every Set-Cookie.
type storedJar struct {
	*cookiejar.Jar
	store  CookieStore
	scope  *url.URL
	logger zerolog.Logger
	mu     sync.Mutex
}

// newCookieJar returns a plain in-memory jar, or a stored one restored from
// cookies when cookies is not nil.
func newCookieJar(ctx context.Context, cookies CookieStore, refreshURL string, logger zerolog.Logger) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "[newCookieJar]")
	}
	if cookies == nil {
		return jar, nil
	}

	scope, err := url.Parse(refreshURL)
	if err != nil {
		return nil, errors.Wrap(err, "[newCookieJar] invalid refresh URL")
	}
	j := &storedJar{Jar: jar, store: cookies, scope: scope, logger: logger}
	if err := j.restore(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *storedJar) restore(ctx context.Context) error {
	header, err := j.store.RefreshCookie(ctx)
	if err != nil {
		return errors.Wrap(err, "[storedJar restore]")
	}
	if header == "" {
		return nil
	}

	cookies, err := http.ParseCookie(header)
	if err != nil {
		j.logger.Warn().Err(err).Msg("Ignoring unreadable stored refresh cookie")
		return nil
	}
	for _, c := range cookies {
		c.Path = j.scope.Path
	}
	j.Jar.SetCookies(j.scope, cookies)
	return nil
}

// SetCookies updates the jar and persists what now applies to the refresh
// endpoint. An expired refresh cookie removes the stored copy.
func (j *storedJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.Jar.SetCookies(u, cookies)

	current := j.Jar.Cookies(j.scope)
	parts := make([]string, 0, len(current))
	for _, c := range current {
		parts = append(parts, c.String())
	}
	if err := j.store.SetRefreshCookie(context.Background(), strings.Join(parts, "; ")); err != nil {
		j.logger.Warn().Err(err).Msg("Could not persist refresh cookie")
	}
}
