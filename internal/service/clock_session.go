package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"golang.org/x/sync/singleflight"
)

// ClockSnapshot is a consistent view of the clock state.
type ClockSnapshot struct {
	State    domain.ClockState
	RecordID string
	ClockIn  time.Time
	// Pending is the record just closed and waiting for a note.
	Pending *domain.SessionRecord
}

// ClockSession drives the Idle -> ClockedIn -> PendingNote -> Idle cycle for
// one user. Calls made from the wrong state return the current snapshot and
// change nothing. Concurrent calls of the same operation share one store
// request.
type ClockSession struct {
	store     repository.TimeLogStore
	user      domain.UserProfile
	loc       *time.Location
	clock     Clock
	observer  UseCaseObserver
	listeners []SessionObserver
	flight    singleflight.Group

	mu       sync.Mutex
	state    domain.ClockState
	recordID string
	clockIn  time.Time
	pending  *domain.SessionRecord
}

// NewClockSession creates an idle session for user. The user's timezone
// decides the capture zone.
func NewClockSession(store repository.TimeLogStore, user domain.UserProfile, clock Clock, observers ...UseCaseObserver) (*ClockSession, error) {
	loc, err := domain.LoadZone(user.Timezone)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ClockSession{
		store:    store,
		user:     user,
		loc:      loc,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
		state:    domain.StateIdle,
	}, nil
}

// AddListener registers l for transition notifications. Not safe to call
// concurrently with clock operations.
func (c *ClockSession) AddListener(l SessionObserver) {
	if l != nil {
		c.listeners = append(c.listeners, l)
	}
}

// Location returns the capture zone.
func (c *ClockSession) Location() *time.Location { return c.loc }

func (c *ClockSession) Snapshot() ClockSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ClockSession) snapshotLocked() ClockSnapshot {
	snap := ClockSnapshot{State: c.state, RecordID: c.recordID, ClockIn: c.clockIn}
	if c.pending != nil {
		p := *c.pending
		snap.Pending = &p
	}
	return snap
}

func (c *ClockSession) CanClockIn() bool   { return c.Snapshot().State == domain.StateIdle }
func (c *ClockSession) CanClockOut() bool  { return c.Snapshot().State == domain.StateClockedIn }
func (c *ClockSession) AwaitingNote() bool { return c.Snapshot().State == domain.StatePendingNote }

// Elapsed returns the running shift length at now, or 0 when not clocked in.
func (c *ClockSession) Elapsed(now time.Time) time.Duration {
	snap := c.Snapshot()
	if snap.State != domain.StateClockedIn {
		return 0
	}
	if d := now.Sub(snap.ClockIn); d > 0 {
		return d
	}
	return 0
}

// begin checks that the session is in `from` and may move to `to`. When it
// may not, the rejection is reported quietly and ok is false.
func (c *ClockSession) begin(ctx context.Context, name string, from, to domain.ClockState) (ClockSnapshot, bool) {
	c.mu.Lock()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	var err error
	if snap.State != from {
		err = &domain.StateError{From: snap.State, To: to}
	} else {
		_, err = domain.Transition(from, to)
	}
	if err != nil {
		c.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:    name,
			Success: false,
			Err:     err,
			Quiet:   true,
			Fields:  map[string]any{"ignored": true, "state": string(snap.State)},
		})
		return snap, false
	}
	return snap, true
}

func (c *ClockSession) shared(key string, fn func() (ClockSnapshot, error)) (ClockSnapshot, error) {
	v, err, _ := c.flight.Do(key, func() (any, error) {
		snap, err := fn()
		return snap, err
	})
	return v.(ClockSnapshot), err
}

// ClockIn opens a record at the current time. A store failure leaves the
// session idle and is returned.
func (c *ClockSession) ClockIn(ctx context.Context) (ClockSnapshot, error) {
	return c.shared("clock-in", func() (ClockSnapshot, error) {
		snap, ok := c.begin(ctx, "clock-in", domain.StateIdle, domain.StateClockedIn)
		if !ok {
			return snap, nil
		}

		var err error
		done := track(ctx, c.observer, "clock-in", map[string]any{"user": c.user.ID})
		defer func() { done(err) }()

		now := c.clock.Now().In(c.loc).Truncate(time.Second)
		var id string
		id, err = c.store.CreateOpenRecord(ctx, c.user.ID, now, c.loc.String())
		if err != nil {
			return snap, err
		}

		c.mu.Lock()
		c.state = domain.StateClockedIn
		c.recordID = id
		c.clockIn = now
		c.pending = nil
		snap = c.snapshotLocked()
		c.mu.Unlock()

		rec := &domain.SessionRecord{ID: id, UserID: c.user.ID, ClockIn: now, Timezone: c.loc.String()}
		for _, l := range c.listeners {
			l.OnClockIn(ctx, rec)
		}
		return snap, nil
	})
}

// ClockOut closes the open record at the current time and waits for a note.
// A store failure leaves the session clocked in.
func (c *ClockSession) ClockOut(ctx context.Context) (ClockSnapshot, error) {
	return c.shared("clock-out", func() (ClockSnapshot, error) {
		snap, ok := c.begin(ctx, "clock-out", domain.StateClockedIn, domain.StatePendingNote)
		if !ok {
			return snap, nil
		}

		var err error
		fields := map[string]any{"user": c.user.ID, "record": snap.RecordID}
		done := track(ctx, c.observer, "clock-out", fields)
		defer func() { done(err) }()

		now := c.clock.Now().In(c.loc).Truncate(time.Second)
		if err = c.store.CloseRecord(ctx, snap.RecordID, now); err != nil {
			return snap, err
		}

		rec := &domain.SessionRecord{
			ID:       snap.RecordID,
			UserID:   c.user.ID,
			ClockIn:  snap.ClockIn,
			ClockOut: &now,
			Timezone: c.loc.String(),
		}
		fields["hours"] = rec.Duration()
		fields["day"] = string(domain.DayKeyOf(now.Weekday()))

		c.mu.Lock()
		c.state = domain.StatePendingNote
		c.pending = rec
		snap = c.snapshotLocked()
		c.mu.Unlock()

		for _, l := range c.listeners {
			l.OnClockOut(ctx, rec)
		}
		return snap, nil
	})
}

// SaveNote stores the note (cut to domain.MaxNoteLength) on the record just
// closed and returns to idle. A store failure keeps the note pending.
func (c *ClockSession) SaveNote(ctx context.Context, text string) (ClockSnapshot, error) {
	return c.shared("note", func() (ClockSnapshot, error) {
		snap, ok := c.begin(ctx, "save-note", domain.StatePendingNote, domain.StateIdle)
		if !ok {
			return snap, nil
		}

		var err error
		done := track(ctx, c.observer, "save-note", map[string]any{"user": c.user.ID, "record": snap.RecordID})
		defer func() { done(err) }()

		note := domain.TruncateNote(text)
		if err = c.store.SetNote(ctx, snap.RecordID, note); err != nil {
			return snap, err
		}

		rec := snap.Pending
		rec.Note = note
		snap = c.toIdle()
		for _, l := range c.listeners {
			l.OnNoteSaved(ctx, rec, note)
		}
		return snap, nil
	})
}

// SkipNote returns to idle without writing a note.
func (c *ClockSession) SkipNote(ctx context.Context) (ClockSnapshot, error) {
	snap, ok := c.begin(ctx, "skip-note", domain.StatePendingNote, domain.StateIdle)
	if !ok {
		return snap, nil
	}
	return c.toIdle(), nil
}

func (c *ClockSession) toIdle() ClockSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.StateIdle
	c.recordID = ""
	c.clockIn = time.Time{}
	c.pending = nil
	return c.snapshotLocked()
}

// Adopt resumes an open record found at startup. It only applies while idle.
func (c *ClockSession) Adopt(rec *domain.SessionRecord) bool {
	if rec == nil || !rec.IsOpen() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := domain.Transition(c.state, domain.StateClockedIn)
	if err != nil {
		return false
	}
	c.state = next
	c.recordID = rec.ID
	c.clockIn = rec.ClockIn.In(c.loc)
	c.pending = nil
	return true
}

// notifyClosed tells the listeners about a record closed outside the normal
// cycle, as a clock-out followed by its note.
func (c *ClockSession) notifyClosed(ctx context.Context, rec *domain.SessionRecord) {
	for _, l := range c.listeners {
		l.OnClockOut(ctx, rec)
		if rec.Note != "" {
			l.OnNoteSaved(ctx, rec, rec.Note)
		}
	}
}

// ForceIdle drops any in-memory session state. Stored records are untouched.
func (c *ClockSession) ForceIdle() {
	c.toIdle()
}
