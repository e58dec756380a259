package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhyasa/study-client/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL     = "http://localhost:5000/api"
	DefaultRefreshPath = "/auth/refresh"
	defaultTimeout     = 15 * time.Second
)

// Client calls the Abhyasa REST API. Every call carries the stored bearer
// token; an expired token is refreshed once per call through the refresh
// cookie held in the client's jar. When tokens is also a CookieStore the
// refresh cookie is persisted beside the token.
type Client struct {
	baseURL   string
	http      *http.Client
	public    *http.Client // login and register: no bearer, no refresh
	transport *refreshTransport
	logger    zerolog.Logger
}

type clientOptions struct {
	baseURL     string
	refreshPath string
	timeout     time.Duration
	transport   http.RoundTripper
	navigator   sessions.Navigator
	logger      zerolog.Logger
	trace       io.Writer
}

// ClientOption defines a function type to modify the Client configuration.
type ClientOption func(*clientOptions)

func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithRefreshPath(path string) ClientOption {
	return func(o *clientOptions) {
		o.refreshPath = path
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithTransport replaces the underlying network transport (primarily for testing)
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithNavigator sets where the user is sent when the session cannot be refreshed
func WithNavigator(nav sessions.Navigator) ClientOption {
	return func(o *clientOptions) {
		o.navigator = nav
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTrace prints every call, refresh calls and retries included, to w.
func WithTrace(w io.Writer) ClientOption {
	return func(o *clientOptions) {
		o.trace = w
	}
}

// NewClient builds a client whose credentials come from tokens.
func NewClient(tokens TokenStore, options ...ClientOption) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("[NewClient] token store is required")
	}

	o := clientOptions{
		baseURL:     DefaultBaseURL,
		refreshPath: DefaultRefreshPath,
		timeout:     defaultTimeout,
		transport:   http.DefaultTransport,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(&o)
	}
	if o.navigator == nil {
		o.navigator = sessions.NavigatorFunc(func(string) {})
	}
	if o.trace != nil {
		o.transport = &traceTransport{base: o.transport, out: o.trace}
	}
	if _, err := url.Parse(o.baseURL); err != nil {
		return nil, errors.Wrap(err, "[NewClient] invalid base URL")
	}

	cookies, _ := tokens.(CookieStore)
	jar, err := newCookieJar(context.Background(), cookies, o.baseURL+o.refreshPath, o.logger)
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] cookie jar")
	}

	rt := &refreshTransport{
		base:       o.transport,
		tokens:     tokens,
		navigator:  o.navigator,
		refresher:  &http.Client{Transport: o.transport, Jar: jar, Timeout: o.timeout},
		refreshURL: o.baseURL + o.refreshPath,
		logger:     o.logger,
	}

	return &Client{
		baseURL:   o.baseURL,
		http:      &http.Client{Transport: rt, Jar: jar, Timeout: o.timeout},
		public:    rt.refresher,
		transport: rt,
		logger:    o.logger,
	}, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends an authenticated JSON request and decodes a JSON response into
// out, when out is not nil. Non 2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	return c.send(ctx, c.http, method, path, query, in, out)
}

// doPublic is do without the bearer token and without refresh on 401.
func (c *Client) doPublic(ctx context.Context, method, path string, in, out any) error {
	return c.send(ctx, c.public, method, path, nil, in, out)
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("API call failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp)
		c.logger.Debug().Int("status", apiErr.Status).Str("path", path).Str("message", apiErr.Message).Msg("API error")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
