package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/timesheet"
)

// DefaultResetInterval is how often the scheduler polls the clock.
const DefaultResetInterval = time.Minute

// WeeklyResetScheduler clears the weekly view once per ISO week, at Sunday
// 23:59 local time. The last reset is remembered in a MarkerStore.
type WeeklyResetScheduler struct {
	markers  repository.MarkerStore
	onReset  func(ctx context.Context)
	loc      *time.Location
	interval time.Duration
	clock    Clock
	observer UseCaseObserver

	mu sync.Mutex
}

func NewWeeklyResetScheduler(markers repository.MarkerStore, onReset func(ctx context.Context), loc *time.Location, interval time.Duration, clock Clock, observers ...UseCaseObserver) *WeeklyResetScheduler {
	if interval <= 0 {
		interval = DefaultResetInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &WeeklyResetScheduler{
		markers:  markers,
		onReset:  onReset,
		loc:      loc,
		interval: interval,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Check fires the reset when due and reports whether it did. An unreadable
// marker means no reset.
func (s *WeeklyResetScheduler) Check(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().In(s.loc)
	last, err := s.markers.LastReset(ctx)
	if err != nil {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{Name: "weekly-reset", Err: err, Fields: map[string]any{"fired": false}})
		return false
	}
	if !timesheet.ShouldReset(now, last) {
		return false
	}

	done := track(ctx, s.observer, "weekly-reset", map[string]any{"fired": true, "at": now.Format(time.RFC3339)})
	if s.onReset != nil {
		s.onReset(ctx)
	}
	// The reset already happened; a failed save only risks a repeat within
	// the same minute.
	err = s.markers.SaveLastReset(ctx, now)
	done(err)
	return true
}

// Run checks immediately and then every interval until ctx is cancelled.
func (s *WeeklyResetScheduler) Run(ctx context.Context) {
	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}
