package sessions

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInactivityWindow is how long a session stays usable without activity.
const DefaultInactivityWindow = 24 * time.Hour

// Decision is the outcome of a gate check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// DenyReason explains a Deny decision
type DenyReason string

const (
	ReasonNone         DenyReason = ""
	ReasonNoToken      DenyReason = "no_token"
	ReasonNoActivity   DenyReason = "no_activity"
	ReasonInactive     DenyReason = "inactive"
	ReasonStoreFailure DenyReason = "store_failure"
)

// Verdict is the outcome of one gate check
type Verdict struct {
	Decision Decision
	Reason   DenyReason
}

func (v Verdict) Allowed() bool {
	return v.Decision == Allow
}

// Gate decides whether a protected view may be entered.
type Gate struct {
	sessions  *Manager
	window    time.Duration
	navigator Navigator
	logger    zerolog.Logger
}

// GateOption defines a function type to modify the Gate instance.
type GateOption func(*Gate)

// WithWindow overrides the inactivity window
func WithWindow(window time.Duration) GateOption {
	return func(g *Gate) {
		if window > 0 {
			g.window = window
		}
	}
}

// WithNavigator sets where denied callers are sent
func WithNavigator(nav Navigator) GateOption {
	return func(g *Gate) {
		if nav != nil {
			g.navigator = nav
		}
	}
}

// WithGateLogger sets the gate logger
func WithGateLogger(logger zerolog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a gate over the session context.
func NewGate(sessions *Manager, options ...GateOption) *Gate {
	g := &Gate{
		sessions:  sessions,
		window:    DefaultInactivityWindow,
		navigator: noopNavigator{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Window returns the configured inactivity window
func (g *Gate) Window() time.Duration {
	return g.window
}

// Check admits or denies entry to a protected view. A denied check discards
// the stored token and sends the caller to login; the activity stamp and the
// paid flag are left in place.
func (g *Gate) Check(ctx context.Context) (Verdict, error) {
	s, err := g.sessions.Read(ctx)
	if err != nil {
		g.logger.Err(err).Msg("Gate: failed to read session")
		g.navigator.ToLogin(string(ReasonStoreFailure))
		return Verdict{Decision: Deny, Reason: ReasonStoreFailure}, err
	}

	reason := g.evaluate(s)
	if reason == ReasonNone {
		return Verdict{Decision: Allow}, nil
	}

	if err := g.sessions.ClearToken(ctx); err != nil {
		g.logger.Err(err).Msg("Gate: failed to discard token")
	}
	g.logger.Info().Str("reason", string(reason)).Msg("Gate: access denied")
	g.navigator.ToLogin(string(reason))
	return Verdict{Decision: Deny, Reason: reason}, nil
}

func (g *Gate) evaluate(s Session) DenyReason {
	if !s.HasToken() {
		return ReasonNoToken
	}
	if s.LastActiveAt == nil {
		return ReasonNoActivity
	}
	if g.sessions.Now().Sub(*s.LastActiveAt) > g.window {
		return ReasonInactive
	}
	return ReasonNone
}
