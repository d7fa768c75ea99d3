package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/report"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/timesheet"
)

// WeeklyReport is one Monday..Sunday summary with its page layout.
type WeeklyReport struct {
	Bucket   domain.WeeklyBucket
	Start    time.Time
	End      time.Time
	Document report.Document
}

// MonthlyReport is a month grouped by week with its page layout.
type MonthlyReport struct {
	Year     int
	Month    time.Month
	Groups   []domain.WeekGroup
	Document report.Document
}

// Total returns the hours worked across the month.
func (r *MonthlyReport) Total() float64 {
	var total float64
	for i := range r.Groups {
		total += r.Groups[i].Total()
	}
	return total
}

type reportService struct {
	store    repository.TimeLogStore
	clock    Clock
	observer UseCaseObserver
}

func NewReportService(store repository.TimeLogStore, clock Clock, observers ...UseCaseObserver) ReportService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &reportService{store: store, clock: clock, observer: useCaseObserverOrNoop(observers)}
}

func (s *reportService) Weekly(ctx context.Context, user domain.UserProfile, weekOf time.Time) (rep *WeeklyReport, err error) {
	fields := map[string]any{"user": user.ID}
	done := track(ctx, s.observer, "weekly-report", fields)
	defer func() { done(err) }()

	loc, err := domain.LoadZone(user.Timezone)
	if err != nil {
		return nil, err
	}
	start, end := timesheet.WeekBounds(weekOf, loc)
	fields["week"] = start.Format(timesheet.DateLayout)

	records, err := s.store.QueryRecords(ctx, user.ID, start, &end)
	if err != nil {
		return nil, fmt.Errorf("loading week %s: %w", start.Format(timesheet.DateLayout), err)
	}
	bucket := timesheet.Aggregate(records, start, loc)
	doc := report.Render(report.WeeklyInput(bucket, user.Name(), s.clock.Now().In(loc)))
	fields["pages"] = len(doc.Pages)

	return &WeeklyReport{Bucket: bucket, Start: start, End: end, Document: doc}, nil
}

func (s *reportService) Monthly(ctx context.Context, user domain.UserProfile, year int, month time.Month) (rep *MonthlyReport, err error) {
	fields := map[string]any{"user": user.ID, "month": fmt.Sprintf("%04d-%02d", year, int(month))}
	done := track(ctx, s.observer, "monthly-report", fields)
	defer func() { done(err) }()

	loc, err := domain.LoadZone(user.Timezone)
	if err != nil {
		return nil, err
	}
	start, end := timesheet.MonthBounds(year, month, loc)

	records, err := s.store.QueryRecords(ctx, user.ID, start, &end)
	if err != nil {
		return nil, fmt.Errorf("loading %s %d: %w", month, year, err)
	}
	groups := timesheet.GroupMonth(records, year, month, loc)
	doc := report.Render(report.MonthlyInput(groups, year, month, user.Name(), s.clock.Now().In(loc)))
	fields["weeks"] = len(groups)
	fields["pages"] = len(doc.Pages)

	return &MonthlyReport{Year: year, Month: month, Groups: groups, Document: doc}, nil
}
