package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/timesheet"
)

// WeeklyView keeps the current week's histogram for one user. It is rebuilt
// from the store at startup and updated from clock notifications afterwards.
type WeeklyView struct {
	store    repository.TimeLogStore
	userID   string
	loc      *time.Location
	clock    Clock
	observer UseCaseObserver

	mu     sync.Mutex
	bucket domain.WeeklyBucket
}

func NewWeeklyView(store repository.TimeLogStore, userID string, loc *time.Location, clock Clock, observers ...UseCaseObserver) *WeeklyView {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	v := &WeeklyView{
		store:    store,
		userID:   userID,
		loc:      loc,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
	v.bucket = domain.NewWeeklyBucket(timesheet.StartOfWeek(clock.Now(), loc))
	return v
}

// Rebuild reloads the current week from the store.
func (v *WeeklyView) Rebuild(ctx context.Context) (err error) {
	done := track(ctx, v.observer, "rebuild-week", map[string]any{"user": v.userID})
	defer func() { done(err) }()

	now := v.clock.Now()
	start := timesheet.StartOfWeek(now, v.loc)
	records, err := v.store.QueryRecords(ctx, v.userID, start, nil)
	if err != nil {
		return err
	}
	bucket := timesheet.Aggregate(records, now, v.loc)

	v.mu.Lock()
	v.bucket = bucket
	v.mu.Unlock()
	return nil
}

// Bucket returns a copy of the current week.
func (v *WeeklyView) Bucket() domain.WeeklyBucket {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bucket.Clone()
}

// Reset empties the histogram and notes, starting from the current week.
func (v *WeeklyView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bucket = domain.NewWeeklyBucket(timesheet.StartOfWeek(v.clock.Now(), v.loc))
}

// rollLocked moves the bucket forward when the clock has left its week.
func (v *WeeklyView) rollLocked() {
	start := timesheet.StartOfWeek(v.clock.Now(), v.loc)
	if !start.Equal(v.bucket.WeekStart) {
		v.bucket = domain.NewWeeklyBucket(start)
	}
}

func (v *WeeklyView) OnClockIn(context.Context, *domain.SessionRecord) {}

func (v *WeeklyView) OnClockOut(_ context.Context, rec *domain.SessionRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rollLocked()
	timesheet.AddToBucket(&v.bucket, rec, v.loc)
}

func (v *WeeklyView) OnNoteSaved(_ context.Context, rec *domain.SessionRecord, note string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	timesheet.AddNoteToBucket(&v.bucket, rec, note, v.loc)
}

var _ SessionObserver = (*WeeklyView)(nil)
