package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/google/uuid"
)

// TestUserID is the default owner of fixture records.
const TestUserID = "user-1"

// RecordOption customises a fixture record.
type RecordOption func(*domain.SessionRecord)

// WithHours closes the record the given number of hours after clock-in.
func WithHours(h float64) RecordOption {
	return func(r *domain.SessionRecord) {
		out := r.ClockIn.Add(time.Duration(h * float64(time.Hour)))
		r.ClockOut = &out
	}
}

func WithNote(note string) RecordOption {
	return func(r *domain.SessionRecord) {
		r.Note = note
	}
}

func WithUser(userID string) RecordOption {
	return func(r *domain.SessionRecord) {
		r.UserID = userID
	}
}

// NewTestRecord builds an open record clocked in at clockIn. The timezone is
// taken from clockIn's location.
func NewTestRecord(clockIn time.Time, opts ...RecordOption) *domain.SessionRecord {
	r := &domain.SessionRecord{
		ID:       uuid.NewString(),
		UserID:   TestUserID,
		ClockIn:  clockIn,
		Timezone: clockIn.Location().String(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SeedRecord writes r through the store's public operations and sets r.ID to
// the stored id.
func SeedRecord(t *testing.T, store repository.TimeLogStore, r *domain.SessionRecord) {
	t.Helper()
	ctx := context.Background()
	id, err := store.CreateOpenRecord(ctx, r.UserID, r.ClockIn, r.Timezone)
	if err != nil {
		t.Fatalf("seeding record: %v", err)
	}
	r.ID = id
	if r.ClockOut != nil {
		if err := store.CloseRecord(ctx, id, *r.ClockOut); err != nil {
			t.Fatalf("closing seeded record: %v", err)
		}
	}
	if r.Note != "" {
		if err := store.SetNote(ctx, id, r.Note); err != nil {
			t.Fatalf("noting seeded record: %v", err)
		}
	}
}
