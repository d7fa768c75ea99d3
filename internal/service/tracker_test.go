package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/alexanderramin/shiftlog/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, clock Clock, listeners ...SessionObserver) (*Tracker, *testutil.MemMarkerStore) {
	t.Helper()
	store := testutil.NewTestStore(t)
	markers := &testutil.MemMarkerStore{}
	tr, err := NewTracker(store, markers, testUser, TrackerOptions{
		Clock:         clock,
		ResetInterval: time.Hour,
		Listeners:     listeners,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr, markers
}

func TestTracker_StartReconcilesAndLoadsWeek(t *testing.T) {
	store := testutil.NewTestStore(t)
	testutil.SeedRecord(t, store, testutil.NewTestRecord(monday0900))
	clock := testutil.NewFakeClock(monday0900.Add(9 * time.Hour))

	tr, err := NewTracker(store, &testutil.MemMarkerStore{}, testUser, TrackerOptions{Clock: clock})
	require.NoError(t, err)
	defer tr.Close()

	out, err := tr.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, timesheet.ActionForceClose, out.Action)
	assert.Equal(t, domain.StateIdle, tr.Snapshot().State)

	week := tr.Week()
	assert.InDelta(t, 8.0, week.Day(domain.Mon).Hours, 1e-9)
	assert.Equal(t, "Auto clocked out after 8h shift cap", week.Day(domain.Mon).LatestNote)
}

func TestTracker_ClockCycleUpdatesWeekAndListeners(t *testing.T) {
	clock := testutil.NewFakeClock(monday0900)
	listener := &recordingListener{}
	tr, _ := newTestTracker(t, clock, listener)
	ctx := context.Background()

	_, err := tr.Start(ctx)
	require.NoError(t, err)

	_, err = tr.ClockIn(ctx)
	require.NoError(t, err)
	clock.Advance(90 * time.Minute)
	assert.Equal(t, 90*time.Minute, tr.Elapsed(clock.Now()))

	snap, err := tr.ClockOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePendingNote, snap.State)

	_, err = tr.SaveNote(ctx, "standup and review")
	require.NoError(t, err)

	assert.InDelta(t, 1.5, tr.Week().Total(), 1e-9)
	assert.Len(t, listener.outs, 1)
	assert.Equal(t, []string{"standup and review"}, listener.notes)
	assert.Equal(t, testUser, tr.User())
}

func TestTracker_ResetClearsWeekAndSession(t *testing.T) {
	clock := testutil.NewFakeClock(monday0900)
	tr, markers := newTestTracker(t, clock)
	ctx := context.Background()

	// Not started: the background scheduler would race the manual check.
	_, err := tr.ClockIn(ctx)
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)
	_, err = tr.ClockOut(ctx)
	require.NoError(t, err)
	_, err = tr.SkipNote(ctx)
	require.NoError(t, err)
	_, err = tr.ClockIn(ctx)
	require.NoError(t, err)
	require.InDelta(t, 2.0, tr.Week().Total(), 1e-9)

	clock.Set(sunday2359)
	assert.True(t, tr.CheckReset(ctx))
	assert.Zero(t, tr.Week().Total())
	assert.Equal(t, domain.StateIdle, tr.Snapshot().State)
	assert.Equal(t, 1, markers.Saves)

	assert.False(t, tr.CheckReset(ctx))
}

func TestTracker_ResetWhileClockedInResumesOpenRecord(t *testing.T) {
	clock := testutil.NewFakeClock(sunday2359.Add(-4 * time.Hour))
	tr, _ := newTestTracker(t, clock)
	ctx := context.Background()

	first, err := tr.ClockIn(ctx)
	require.NoError(t, err)

	clock.Set(sunday2359)
	require.True(t, tr.CheckReset(ctx))
	snap := tr.Snapshot()
	assert.Equal(t, domain.StateClockedIn, snap.State)
	assert.Equal(t, first.RecordID, snap.RecordID)
	assert.Zero(t, tr.Week().Total())

	clock.Advance(time.Minute)
	snap, err = tr.ClockOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePendingNote, snap.State)
	_, err = tr.SkipNote(ctx)
	require.NoError(t, err)

	snap, err = tr.ClockIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClockedIn, snap.State)
}

func TestTracker_ClockInAdoptsForeignOpenRecord(t *testing.T) {
	store := testutil.NewTestStore(t)
	clock := testutil.NewFakeClock(monday0900)
	tr, err := NewTracker(store, &testutil.MemMarkerStore{}, testUser, TrackerOptions{Clock: clock})
	require.NoError(t, err)
	defer tr.Close()
	ctx := context.Background()

	other := testutil.NewTestRecord(monday0900.Add(-time.Hour))
	testutil.SeedRecord(t, store, other)

	snap, err := tr.ClockIn(ctx)
	require.ErrorIs(t, err, repository.ErrOpenRecordExists)
	assert.Equal(t, domain.StateClockedIn, snap.State)
	assert.Equal(t, other.ID, snap.RecordID)
	assert.Len(t, allRecords(t, store), 1)
}

func TestTracker_CloseIsIdempotent(t *testing.T) {
	tr, _ := newTestTracker(t, testutil.NewFakeClock(monday0900))
	_, err := tr.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}

func TestTracker_RestartAfterClose(t *testing.T) {
	tr, _ := newTestTracker(t, testutil.NewFakeClock(monday0900))
	require.NoError(t, tr.Close())

	for i := 0; i < 3; i++ {
		_, err := tr.Start(context.Background())
		require.NoError(t, err)
		require.NoError(t, tr.Close())
	}
}

func TestNewTracker_BadZone(t *testing.T) {
	_, err := NewTracker(testutil.NewTestStore(t), &testutil.MemMarkerStore{}, domain.UserProfile{ID: "u", Timezone: "Mars/Olympus"}, TrackerOptions{})
	assert.Error(t, err)
}
