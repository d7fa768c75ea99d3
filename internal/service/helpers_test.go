package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/stretchr/testify/require"
)

// monday0900 is Monday 2025-03-10 09:00 UTC.
var monday0900 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

var testUser = domain.UserProfile{ID: testutil.TestUserID, DisplayName: "Ada", Timezone: "UTC"}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type recordingListener struct {
	mu       sync.Mutex
	clockIns []*domain.SessionRecord
	outs     []*domain.SessionRecord
	notes    []string
}

func (l *recordingListener) OnClockIn(_ context.Context, r *domain.SessionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clockIns = append(l.clockIns, r)
}

func (l *recordingListener) OnClockOut(_ context.Context, r *domain.SessionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outs = append(l.outs, r)
}

func (l *recordingListener) OnNoteSaved(_ context.Context, _ *domain.SessionRecord, note string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notes = append(l.notes, note)
}

func newTestSession(t *testing.T, store repository.TimeLogStore, clock Clock, observers ...UseCaseObserver) *ClockSession {
	t.Helper()
	s, err := NewClockSession(store, testUser, clock, observers...)
	require.NoError(t, err)
	return s
}

func allRecords(t *testing.T, store repository.TimeLogStore) []*domain.SessionRecord {
	t.Helper()
	recs, err := store.QueryRecords(context.Background(), testUser.ID, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	return recs
}
