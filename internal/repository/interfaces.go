package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// TimeLogStore persists session records. Times are passed in the capture
// zone; implementations keep the wall clock and the zone name.
type TimeLogStore interface {
	// CreateOpenRecord inserts a record with no clock-out and returns its id.
	CreateOpenRecord(ctx context.Context, userID string, clockInLocal time.Time, timezone string) (string, error)
	// CloseRecord sets the clock-out. It fails with a *domain.ValidationError
	// when clockOut precedes the clock-in.
	CloseRecord(ctx context.Context, recordID string, clockOutLocal time.Time) error
	SetNote(ctx context.Context, recordID, note string) error
	// AutoClose closes an open record at closeAt, stores the note and flags
	// the record as closed by the shift cap, all in one transaction.
	AutoClose(ctx context.Context, recordID string, closeAt time.Time, note string) error
	// QueryRecords returns records whose clock-in is in [from, to), ordered by
	// clock-in. A nil to means no upper bound.
	QueryRecords(ctx context.Context, userID string, from time.Time, to *time.Time) ([]*domain.SessionRecord, error)
	// FindLatestOpenRecord returns ErrNotFound when the user has no open record.
	FindLatestOpenRecord(ctx context.Context, userID string) (*domain.SessionRecord, error)
}

// MarkerStore keeps the weekly reset marker outside the record store.
type MarkerStore interface {
	// LastReset returns nil when no reset has happened yet.
	LastReset(ctx context.Context) (*time.Time, error)
	SaveLastReset(ctx context.Context, at time.Time) error
}
