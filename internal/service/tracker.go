package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
)

// TrackerOptions tunes a Tracker. Zero values select the defaults.
type TrackerOptions struct {
	MaxShift      time.Duration
	ResetInterval time.Duration
	Clock         Clock
	Observer      UseCaseObserver
	Listeners     []SessionObserver
}

// Tracker owns every piece of per-user tracking state: the clock session, the
// weekly view, the startup monitor and the reset scheduler.
type Tracker struct {
	user      domain.UserProfile
	session   *ClockSession
	week      *WeeklyView
	monitor   *Monitor
	scheduler *WeeklyResetScheduler

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(store repository.TimeLogStore, markers repository.MarkerStore, user domain.UserProfile, opts TrackerOptions) (*Tracker, error) {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	session, err := NewClockSession(store, user, clock, opts.Observer)
	if err != nil {
		return nil, fmt.Errorf("creating clock session: %w", err)
	}
	loc := session.Location()

	t := &Tracker{
		user:    user,
		session: session,
		week:    NewWeeklyView(store, user.ID, loc, clock, opts.Observer),
		monitor: NewMonitor(store, session, user.ID, opts.MaxShift, clock, opts.Observer),
	}
	t.scheduler = NewWeeklyResetScheduler(markers, t.reset, loc, opts.ResetInterval, clock, opts.Observer)

	session.AddListener(t.week)
	for _, l := range opts.Listeners {
		session.AddListener(l)
	}
	return t, nil
}

// reset clears the week and the in-memory session. The stored open record
// outlives it, so the monitor runs again: it closes a shift past the cap or
// resumes the one still running.
func (t *Tracker) reset(ctx context.Context) {
	t.session.ForceIdle()
	t.monitor.Run(ctx)
	t.week.Reset()
}

// Start reconciles any open record, loads the current week and launches the
// reset scheduler. A failed weekly load is returned; reconciliation problems
// are reported in the outcome.
func (t *Tracker) Start(ctx context.Context) (ReconcileOutcome, error) {
	outcome := t.monitor.Run(ctx)
	if err := t.week.Rebuild(ctx); err != nil {
		return outcome, fmt.Errorf("loading current week: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		sctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		t.cancel, t.done = cancel, done
		go func() {
			defer close(done)
			t.scheduler.Run(sctx)
		}()
	}
	return outcome, nil
}

// Close stops the scheduler and waits for it to exit.
func (t *Tracker) Close() error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

func (t *Tracker) User() domain.UserProfile { return t.user }

// ClockIn opens a record. When the store already holds an open record for
// the user (another device, or a reset that dropped it from memory) that
// record is adopted and the error is still returned.
func (t *Tracker) ClockIn(ctx context.Context) (ClockSnapshot, error) {
	snap, err := t.session.ClockIn(ctx)
	if errors.Is(err, repository.ErrOpenRecordExists) {
		t.monitor.Run(ctx)
		return t.session.Snapshot(), err
	}
	return snap, err
}

func (t *Tracker) ClockOut(ctx context.Context) (ClockSnapshot, error) {
	return t.session.ClockOut(ctx)
}
func (t *Tracker) SkipNote(ctx context.Context) (ClockSnapshot, error) {
	return t.session.SkipNote(ctx)
}

func (t *Tracker) SaveNote(ctx context.Context, note string) (ClockSnapshot, error) {
	return t.session.SaveNote(ctx, note)
}

func (t *Tracker) Snapshot() ClockSnapshot { return t.session.Snapshot() }

func (t *Tracker) Elapsed(now time.Time) time.Duration { return t.session.Elapsed(now) }

// Week returns a copy of the current weekly histogram.
func (t *Tracker) Week() domain.WeeklyBucket { return t.week.Bucket() }

// CheckReset runs one scheduler check outside the background loop.
func (t *Tracker) CheckReset(ctx context.Context) bool { return t.scheduler.Check(ctx) }
