package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
)

// FaultyStore wraps a TimeLogStore with injectable failures and call counts.
// Set the *Err fields before use; they are read without locking.
type FaultyStore struct {
	repository.TimeLogStore

	CreateErr error
	CloseErr  error
	NoteErr   error
	QueryErr  error
	FindErr   error

	// Gate, when set, blocks CreateOpenRecord until it is closed.
	Gate chan struct{}
	// Entered receives one value each time CreateOpenRecord starts.
	Entered chan struct{}

	CreateCalls    atomic.Int32
	CloseCalls     atomic.Int32
	NoteCalls      atomic.Int32
	AutoCloseCalls atomic.Int32
}

func NewFaultyStore(inner repository.TimeLogStore) *FaultyStore {
	return &FaultyStore{TimeLogStore: inner}
}

func (f *FaultyStore) CreateOpenRecord(ctx context.Context, userID string, clockIn time.Time, tz string) (string, error) {
	f.CreateCalls.Add(1)
	if f.Entered != nil {
		f.Entered <- struct{}{}
	}
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.CreateErr != nil {
		return "", &repository.StoreError{Op: "create open record", Err: f.CreateErr}
	}
	return f.TimeLogStore.CreateOpenRecord(ctx, userID, clockIn, tz)
}

func (f *FaultyStore) CloseRecord(ctx context.Context, recordID string, clockOut time.Time) error {
	f.CloseCalls.Add(1)
	if f.CloseErr != nil {
		return &repository.StoreError{Op: "close record", Err: f.CloseErr}
	}
	return f.TimeLogStore.CloseRecord(ctx, recordID, clockOut)
}

func (f *FaultyStore) SetNote(ctx context.Context, recordID, note string) error {
	f.NoteCalls.Add(1)
	if f.NoteErr != nil {
		return &repository.StoreError{Op: "set note", Err: f.NoteErr}
	}
	return f.TimeLogStore.SetNote(ctx, recordID, note)
}

// AutoClose fails without writing anything when CloseErr or NoteErr is set,
// like the transactional stores do.
func (f *FaultyStore) AutoClose(ctx context.Context, recordID string, closeAt time.Time, note string) error {
	f.AutoCloseCalls.Add(1)
	if f.CloseErr != nil {
		return &repository.StoreError{Op: "auto close record", Err: f.CloseErr}
	}
	if f.NoteErr != nil {
		return &repository.StoreError{Op: "auto close record", Err: f.NoteErr}
	}
	return f.TimeLogStore.AutoClose(ctx, recordID, closeAt, note)
}

func (f *FaultyStore) QueryRecords(ctx context.Context, userID string, from time.Time, to *time.Time) ([]*domain.SessionRecord, error) {
	if f.QueryErr != nil {
		return nil, &repository.StoreError{Op: "query records", Err: f.QueryErr}
	}
	return f.TimeLogStore.QueryRecords(ctx, userID, from, to)
}

func (f *FaultyStore) FindLatestOpenRecord(ctx context.Context, userID string) (*domain.SessionRecord, error) {
	if f.FindErr != nil {
		return nil, &repository.StoreError{Op: "find open record", Err: f.FindErr}
	}
	return f.TimeLogStore.FindLatestOpenRecord(ctx, userID)
}

// MemMarkerStore is an in-memory MarkerStore.
type MemMarkerStore struct {
	mu      sync.Mutex
	last    *time.Time
	ReadErr error
	Saves   int
}

func (m *MemMarkerStore) LastReset(context.Context) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, &repository.StoreError{Op: "read reset marker", Err: m.ReadErr}
	}
	return m.last, nil
}

func (m *MemMarkerStore) SaveLastReset(_ context.Context, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &at
	m.Saves++
	return nil
}

// SetLast seeds the marker.
func (m *MemMarkerStore) SetLast(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &at
}
