package activity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kind is a category of user interaction that keeps a session alive.
type Kind string

const (
	Click       Kind = "click"
	KeyPress    Kind = "keypress"
	PointerMove Kind = "pointermove"
	Scroll      Kind = "scroll"
)

// Event is one user interaction
type Event struct {
	Kind Kind
	At   time.Time
}

// Tracked reports whether k refreshes the activity stamp
func (k Kind) Tracked() bool {
	switch k {
	case Click, KeyPress, PointerMove, Scroll:
		return true
	}
	return false
}

// Source delivers user interaction events. A closed channel ends the listener.
type Source interface {
	Events() <-chan Event
}

// Toucher persists the activity stamp; sessions.Manager satisfies it.
type Toucher interface {
	Touch(ctx context.Context) error
}

// Tracker keeps the last activity stamp fresh while the application runs.
type Tracker struct {
	toucher  Toucher
	coalesce time.Duration
	nowTime  func() time.Time
	logger   zerolog.Logger

	mu        sync.Mutex
	lastWrite time.Time
}

// TrackerOption defines a function type to modify the Tracker instance.
type TrackerOption func(*Tracker)

// WithCoalesce skips stamps that arrive within d of the previous write.
func WithCoalesce(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.coalesce = d
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.nowTime = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func NewTracker(toucher Toucher, options ...TrackerOption) *Tracker {
	t := &Tracker{
		toucher: toucher,
		nowTime: time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Record handles a single interaction synchronously.
func (t *Tracker) Record(ctx context.Context, kind Kind) error {
	if !kind.Tracked() {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowTime()
	if t.coalesce > 0 && !t.lastWrite.IsZero() && now.Sub(t.lastWrite) < t.coalesce {
		return nil
	}
	if err := t.toucher.Touch(ctx); err != nil {
		return err
	}
	t.lastWrite = now
	return nil
}

// Attach starts one listener per source. The returned detach function stops
// every listener and waits for them to exit. Events a source had already
// accepted are recorded before its listener exits. detach may be called more
// than once.
func (t *Tracker) Attach(ctx context.Context, sources ...Source) (detach func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)
		go func(events <-chan Event) {
			defer wg.Done()
			t.listen(ctx, events)
		}(src.Events())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

func (t *Tracker) listen(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			t.drain(context.WithoutCancel(ctx), events)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := t.Record(ctx, ev.Kind); err != nil {
				t.logger.Err(err).Str("kind", string(ev.Kind)).Msg("Failed to record activity")
			}
		}
	}
}

// drain records events already buffered when the listener is stopped.
func (t *Tracker) drain(ctx context.Context, events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := t.Record(ctx, ev.Kind); err != nil {
				t.logger.Err(err).Str("kind", string(ev.Kind)).Msg("Failed to record activity")
			}
		default:
			return
		}
	}
}
