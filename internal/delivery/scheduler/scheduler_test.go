package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"uvalert/config"
	"uvalert/internal/domain"
	"uvalert/internal/domain/entity"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatch struct {
	mu    sync.Mutex
	runs  int
	fired chan struct{}
}

func (f *fakeDispatch) RunCycle(ctx context.Context) (*entity.DispatchReport, error) {
	report, _, err := f.TryRunCycle(ctx)

	return report, err
}

func (f *fakeDispatch) TryRunCycle(_ context.Context) (*entity.DispatchReport, bool, error) {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()
	f.fired <- struct{}{}

	return &entity.DispatchReport{}, true, nil
}

func (f *fakeDispatch) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.runs
}

func newTestScheduler(t *testing.T, dispatch *fakeDispatch, at time.Time) *clockwork.FakeClock {
	t.Helper()

	fake := clockwork.NewFakeClockAt(at)
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	cfg := &config.Config{
		Scheduler: &config.SchedulerConfig{
			Enabled:  true,
			Hour:     11,
			Minute:   30,
			Timezone: "UTC",
		},
	}

	sched, err := New(Params{
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Dispatch: dispatch,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = sched.Serve(ctx) }()

	return fake
}

func TestServe_FiresAtConfiguredTime(t *testing.T) {
	dispatch := &fakeDispatch{fired: make(chan struct{}, 4)}
	fake := newTestScheduler(t, dispatch, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	// Let Serve reach its timer before moving time.
	fake.BlockUntil(1)
	fake.Advance(2*time.Hour + 30*time.Minute)

	select {
	case <-dispatch.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("cycle never fired at the scheduled time")
	}

	assert.Equal(t, 1, dispatch.runCount())
}

func TestServe_FiresAgainNextDay(t *testing.T) {
	dispatch := &fakeDispatch{fired: make(chan struct{}, 4)}
	fake := newTestScheduler(t, dispatch, time.Date(2026, 3, 10, 11, 29, 0, 0, time.UTC))

	fake.BlockUntil(1)
	fake.Advance(time.Minute)
	select {
	case <-dispatch.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle never fired")
	}

	// The next trigger is tomorrow 11:30, not later today.
	fake.BlockUntil(1)
	fake.Advance(24 * time.Hour)
	select {
	case <-dispatch.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("second cycle never fired")
	}

	assert.Equal(t, 2, dispatch.runCount())
}

func TestNextTrigger(t *testing.T) {
	loc := time.UTC
	s := &dailyScheduler{hour: 11, minute: 30, location: loc}

	before := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 30, 0, 0, loc), s.nextTrigger(before))

	exactly := time.Date(2026, 3, 10, 11, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 11, 11, 30, 0, 0, loc), s.nextTrigger(exactly),
		"a trigger at the boundary schedules tomorrow, never double-fires")

	after := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 11, 11, 30, 0, 0, loc), s.nextTrigger(after))
}

func TestNew_RejectsBrokenTimezone(t *testing.T) {
	_, err := New(Params{
		Config: &config.Config{
			Scheduler: &config.SchedulerConfig{Enabled: true, Timezone: "Not/AZone"},
		},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Dispatch: &fakeDispatch{fired: make(chan struct{}, 1)},
	})

	assert.Error(t, err)
}
