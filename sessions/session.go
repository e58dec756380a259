package sessions

import (
	"context"
	"strconv"
	"time"

	"github.com/abhyasa/study-client/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Persisted keys. The values are plain strings so the same layout works on
// every storage backend.
const (
	TokenKey      = "token"
	LastActiveKey = "lastActive"
	PaidKey       = "paid"

	// RefreshCookieKey holds the refresh cookie so it outlives the process
	RefreshCookieKey = "refreshCookie"
)

// Session is a snapshot of the persisted client session.
type Session struct {
	AccessToken  string     // Bearer credential, empty when logged out
	LastActiveAt *time.Time // Last recorded user interaction, nil when never recorded
	Paid         bool       // Simulated purchase flag, client wide
}

// HasToken reports whether an access token is present
func (s Session) HasToken() bool {
	return s.AccessToken != ""
}

// Manager is the session context handed to every component that reads or
// writes the persisted session. It owns the key layout and the clock.
type Manager struct {
	store   storage.Store
	nowTime func() time.Time
	logger  zerolog.Logger
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the logger used for storage failures
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session context over store.
func NewManager(store storage.Store, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}
	m := &Manager{
		store:   store,
		nowTime: time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Init checks the backing store is usable.
func (m *Manager) Init(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return errors.Wrap(err, "[Manager Init] session store unavailable")
	}
	return nil
}

// Now returns the manager's notion of the current time
func (m *Manager) Now() time.Time {
	return m.nowTime()
}

// Read returns the whole persisted session.
func (m *Manager) Read(ctx context.Context) (Session, error) {
	var s Session
	var err error

	if s.AccessToken, err = m.Token(ctx); err != nil {
		return Session{}, err
	}
	if s.LastActiveAt, err = m.LastActive(ctx); err != nil {
		return Session{}, err
	}
	if s.Paid, err = m.Paid(ctx); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Token returns the stored access token or "" when absent.
func (m *Manager) Token(ctx context.Context) (string, error) {
	v, _, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		return "", errors.Wrap(err, "[Manager Token]")
	}
	return v, nil
}

// SetToken persists a freshly issued token and stamps activity, since a
// successful authentication is itself user activity. Empty tokens are ignored.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Set(ctx, TokenKey, token); err != nil {
		return errors.Wrap(err, "[Manager SetToken]")
	}
	return m.Touch(ctx)
}

// Touch records user activity at the current time.
func (m *Manager) Touch(ctx context.Context) error {
	return m.TouchAt(ctx, m.nowTime())
}

// TouchAt records user activity at t.
func (m *Manager) TouchAt(ctx context.Context, t time.Time) error {
	if err := m.store.Set(ctx, LastActiveKey, strconv.FormatInt(t.UnixMilli(), 10)); err != nil {
		return errors.Wrap(err, "[Manager Touch]")
	}
	return nil
}

// LastActive returns the last activity stamp. Missing or unparsable values
// read as nil.
func (m *Manager) LastActive(ctx context.Context) (*time.Time, error) {
	v, ok, err := m.store.Get(ctx, LastActiveKey)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager LastActive]")
	}
	if !ok || v == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ms <= 0 {
		m.logger.Warn().Str("value", v).Msg("Ignoring unreadable last activity stamp")
		return nil, nil
	}
	t := time.UnixMilli(ms)
	return &t, nil
}

// ActiveWithin reports whether the last activity lies within window of now.
// The boundary counts as active.
func (m *Manager) ActiveWithin(ctx context.Context, window time.Duration) (bool, error) {
	last, err := m.LastActive(ctx)
	if err != nil {
		return false, err
	}
	if last == nil {
		return false, nil
	}
	return m.nowTime().Sub(*last) <= window, nil
}

// Paid reports whether the simulated purchase flag is set.
func (m *Manager) Paid(ctx context.Context) (bool, error) {
	v, _, err := m.store.Get(ctx, PaidKey)
	if err != nil {
		return false, errors.Wrap(err, "[Manager Paid]")
	}
	paid, _ := strconv.ParseBool(v)
	return paid, nil
}

// SetPaid persists the purchase flag.
func (m *Manager) SetPaid(ctx context.Context, paid bool) error {
	if err := m.store.Set(ctx, PaidKey, strconv.FormatBool(paid)); err != nil {
		return errors.Wrap(err, "[Manager SetPaid]")
	}
	return nil
}

// RefreshCookie returns the persisted refresh cookie header or "" when absent.
func (m *Manager) RefreshCookie(ctx context.Context) (string, error) {
	v, _, err := m.store.Get(ctx, RefreshCookieKey)
	if err != nil {
		return "", errors.Wrap(err, "[Manager RefreshCookie]")
	}
	return v, nil
}

// SetRefreshCookie persists the refresh cookie header. An empty value removes it.
func (m *Manager) SetRefreshCookie(ctx context.Context, value string) error {
	var err error
	if value == "" {
		err = m.store.Delete(ctx, RefreshCookieKey)
	} else {
		err = m.store.Set(ctx, RefreshCookieKey, value)
	}
	if err != nil {
		return errors.Wrap(err, "[Manager SetRefreshCookie]")
	}
	return nil
}

// ClearToken drops the access token only. Activity and the paid flag stay.
func (m *Manager) ClearToken(ctx context.Context) error {
	if err := m.store.Delete(ctx, TokenKey); err != nil {
		return errors.Wrap(err, "[Manager ClearToken]")
	}
	return nil
}

// ClearAuth drops the token and the activity stamp.
func (m *Manager) ClearAuth(ctx context.Context) error {
	if err := m.store.Delete(ctx, TokenKey, LastActiveKey); err != nil {
		return errors.Wrap(err, "[Manager ClearAuth]")
	}
	return nil
}

// Clear drops everything the client persisted, including the paid flag and
// the refresh cookie.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, TokenKey, LastActiveKey, PaidKey, RefreshCookieKey); err != nil {
		return errors.Wrap(err, "[Manager Clear]")
	}
	return nil
}
