package activity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abhyasa/study-client/activity"
	"github.com/abhyasa/study-client/sessions"
	fakestore "github.com/abhyasa/study-client/storage/repofake"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setup(t *testing.T, options ...activity.TrackerOption) (*activity.Tracker, *sessions.Manager, *fakestore.FakeStore, *clock) {
	t.Helper()

	c := &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	store := fakestore.NewFakeStore()
	m, err := sessions.NewManager(store, sessions.WithNowTime(c.Now))
	require.NoError(t, err)

	options = append([]activity.TrackerOption{activity.WithNowTime(c.Now)}, options...)
	return activity.NewTracker(m, options...), m, store, c
}

func TestTracker_Record(t *testing.T) {
	ctx := context.Background()

	for _, kind := range []activity.Kind{activity.Click, activity.KeyPress, activity.PointerMove, activity.Scroll} {
		t.Run(string(kind), func(t *testing.T) {
			tracker, m, _, c := setup(t)
			c.Advance(time.Minute)

			require.NoError(t, tracker.Record(ctx, kind))

			last, err := m.LastActive(ctx)
			require.NoError(t, err)
			require.NotNil(t, last)
			require.True(t, last.Equal(c.Now()))
		})
	}

	t.Run("untracked kind is ignored", func(t *testing.T) {
		tracker, m, store, _ := setup(t)
		require.NoError(t, tracker.Record(ctx, activity.Kind("focus")))

		last, err := m.LastActive(ctx)
		require.NoError(t, err)
		require.Nil(t, last)
		require.Zero(t, store.Writes())
	})
}

func TestTracker_Coalesce(t *testing.T) {
	ctx := context.Background()
	tracker, m, store, c := setup(t, activity.WithCoalesce(time.Second))

	require.NoError(t, tracker.Record(ctx, activity.PointerMove))
	first := c.Now()

	c.Advance(200 * time.Millisecond)
	require.NoError(t, tracker.Record(ctx, activity.PointerMove))
	require.Equal(t, 1, store.Writes())

	last, err := m.LastActive(ctx)
	require.NoError(t, err)
	require.True(t, last.Equal(first))

	c.Advance(time.Second)
	require.NoError(t, tracker.Record(ctx, activity.PointerMove))
	require.Equal(t, 2, store.Writes())

	last, err = m.LastActive(ctx)
	require.NoError(t, err)
	require.True(t, last.Equal(c.Now()))
}

func TestTracker_AttachAndDetach(t *testing.T) {
	ctx := context.Background()
	tracker, m, store, c := setup(t)

	keys := activity.NewChannelSource(8)
	mouse := activity.NewChannelSource(8)
	detach := tracker.Attach(ctx, keys, mouse)

	c.Advance(time.Minute)
	require.True(t, keys.Emit(activity.KeyPress))

	require.Eventually(t, func() bool {
		last, err := m.LastActive(ctx)
		return err == nil && last != nil && last.Equal(c.Now())
	}, time.Second, 5*time.Millisecond)

	require.True(t, mouse.Emit(activity.Scroll))
	require.Eventually(t, func() bool { return store.Writes() == 2 }, time.Second, 5*time.Millisecond)

	detach()
	detach()

	writes := store.Writes()
	keys.Emit(activity.KeyPress)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, writes, store.Writes(), "detached listeners do not write")
}

func TestTracker_DetachRecordsBufferedEvents(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		tracker, m, _, c := setup(t)
		src := activity.NewChannelSource(4)
		detach := tracker.Attach(ctx, src)

		c.Advance(time.Minute)
		require.True(t, src.Emit(activity.KeyPress))
		src.Close()
		detach()

		last, err := m.LastActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, last, "iteration %d", i)
		require.True(t, last.Equal(c.Now()))
	}
}

func TestTracker_ClosedSourceEndsListener(t *testing.T) {
	tracker, _, _, _ := setup(t)
	src := activity.NewChannelSource(1)
	detach := tracker.Attach(context.Background(), src)

	src.Close()
	done := make(chan struct{})
	go func() {
		detach()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("detach did not return")
	}
}
