package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/abhyasa/study-client/sessions"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	requestIDHeader = "X-Request-ID"
	refreshFlight   = "refresh"
)

// TokenStore is the part of the session context the transport needs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearAuth(ctx context.Context) error
}

type retriedKey struct{}

// markRetried flags ctx so a request built from it is never refreshed again.
func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func isRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

// refreshTransport attaches the stored bearer token to every request and, on a
// 401, refreshes the token once and replays the request once.
//
// Concurrent 401s share a single refresh call. A request that failed with a
// token that has since been replaced is replayed with the new token without
// refreshing again.
type refreshTransport struct {
	base       http.RoundTripper
	tokens     TokenStore
	navigator  sessions.Navigator
	refresher  *http.Client // plain client sharing only the cookie jar
	refreshURL string
	logger     zerolog.Logger
	flight     singleflight.Group
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	sentToken := t.currentToken(ctx)
	out := req.Clone(ctx)
	t.authorize(out, sentToken)

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isRetried(ctx) {
		return resp, nil
	}
	if !replayable(req) {
		t.logger.Warn().Str("path", req.URL.Path).Msg("401 on a request whose body cannot be replayed")
		return resp, nil
	}
	drain(resp)

	newToken, err := t.freshToken(ctx, sentToken)
	if err != nil {
		return nil, err
	}

	retryCtx := markRetried(ctx)
	retry := req.Clone(retryCtx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("[refreshTransport] replay body: %w", err)
		}
		retry.Body = body
	}
	t.authorize(retry, newToken)

	t.logger.Debug().Str("path", req.URL.Path).Msg("Retrying request after token refresh")
	return t.base.RoundTrip(retry)
}

func (t *refreshTransport) currentToken(ctx context.Context) string {
	tok, err := t.tokens.Token(ctx)
	if err != nil {
		t.logger.Err(err).Msg("Failed to read access token")
		return ""
	}
	return tok
}

func (t *refreshTransport) authorize(req *http.Request, tok string) {
	if tok != "" {
		(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(req)
	} else {
		req.Header.Del("Authorization")
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.New().String())
	}
}

// freshToken returns a token newer than rejected, refreshing when needed.
// Concurrent callers share one refresh; a caller whose rejected token was
// already replaced gets the stored token without another refresh.
func (t *refreshTransport) freshToken(ctx context.Context, rejected string) (string, error) {
	return t.shared(ctx, func(ctx context.Context) (string, error) {
		if stored := t.currentToken(ctx); stored != "" && stored != rejected {
			return stored, nil
		}
		return t.refresh(ctx)
	})
}

// forceRefresh always calls the refresh endpoint, joining any refresh in flight.
func (t *refreshTransport) forceRefresh(ctx context.Context) (string, error) {
	return t.shared(ctx, t.refresh)
}

// shared runs fn at most once at a time. The call outlives a cancelled caller.
func (t *refreshTransport) shared(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	v, err, shared := t.flight.Do(refreshFlight, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	if shared {
		t.logger.Debug().Msg("Joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh calls the refresh endpoint outside this transport. On any failure
// the local session is cleared and the user is sent to login.
func (t *refreshTransport) refresh(ctx context.Context) (string, error) {
	tok, err := t.requestRefresh(ctx)
	if err == nil {
		if err = t.tokens.SetToken(ctx, tok); err == nil {
			t.logger.Info().Msg("Access token refreshed")
			return tok, nil
		}
	}

	t.logger.Err(err).Msg("Refresh failed")
	if clearErr := t.tokens.ClearAuth(ctx); clearErr != nil {
		t.logger.Err(clearErr).Msg("Failed to clear session after refresh failure")
	}
	t.navigator.ToLogin("refresh_failed")
	return "", fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, err)
}

func (t *refreshTransport) requestRefresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.New().String())

	resp, err := t.refresher.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newAPIError(resp)
	}
	var body RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if body.Token == "" {
		return "", apperrors.ErrNoToken
	}
	return body.Token, nil
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
