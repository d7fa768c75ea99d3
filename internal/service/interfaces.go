package service

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// Clock supplies the current time. Tests substitute a fixed or stepping clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SessionObserver is notified after each successful clock transition.
type SessionObserver interface {
	OnClockIn(ctx context.Context, rec *domain.SessionRecord)
	OnClockOut(ctx context.Context, rec *domain.SessionRecord)
	OnNoteSaved(ctx context.Context, rec *domain.SessionRecord, note string)
}

// ReportService builds the weekly and monthly summaries with their layouts.
type ReportService interface {
	Weekly(ctx context.Context, user domain.UserProfile, weekOf time.Time) (*WeeklyReport, error)
	Monthly(ctx context.Context, user domain.UserProfile, year int, month time.Month) (*MonthlyReport, error)
}
