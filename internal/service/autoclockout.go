package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/timesheet"
)

// ReconcileOutcome reports what the monitor did at startup.
type ReconcileOutcome struct {
	Action timesheet.Action
	Record *domain.SessionRecord
	State  domain.ClockState
	// Err is the failure that forced the session idle, if any.
	Err error
}

// Monitor reconciles a leftover open record when the tracker starts: it
// resumes short sessions and closes ones that ran past the shift cap.
type Monitor struct {
	store    repository.TimeLogStore
	session  *ClockSession
	userID   string
	maxShift time.Duration
	clock    Clock
	observer UseCaseObserver
}

func NewMonitor(store repository.TimeLogStore, session *ClockSession, userID string, maxShift time.Duration, clock Clock, observers ...UseCaseObserver) *Monitor {
	if maxShift <= 0 {
		maxShift = timesheet.DefaultMaxShift
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Monitor{
		store:    store,
		session:  session,
		userID:   userID,
		maxShift: maxShift,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Run reconciles once. It never fails: store errors are logged and leave the
// session idle.
func (m *Monitor) Run(ctx context.Context) ReconcileOutcome {
	fields := map[string]any{"user": m.userID, "max_shift": m.maxShift.String()}
	done := track(ctx, m.observer, "reconcile", fields)

	out := m.reconcile(ctx)
	fields["action"] = out.Action.String()
	if out.Record != nil {
		fields["record"] = out.Record.ID
	}
	done(out.Err)
	return out
}

func (m *Monitor) reconcile(ctx context.Context) ReconcileOutcome {
	open, err := m.store.FindLatestOpenRecord(ctx, m.userID)
	if err != nil {
		m.session.ForceIdle()
		if errors.Is(err, repository.ErrNotFound) {
			return ReconcileOutcome{Action: timesheet.ActionNone, State: domain.StateIdle}
		}
		return ReconcileOutcome{Action: timesheet.ActionNone, State: domain.StateIdle, Err: err}
	}

	decision := timesheet.Reconcile(open, m.clock.Now(), m.maxShift)
	out := ReconcileOutcome{Action: decision.Action, Record: open, State: decision.State}

	switch decision.Action {
	case timesheet.ActionAdopt:
		if !m.session.Adopt(open) {
			out.State = m.session.Snapshot().State
		}
	case timesheet.ActionForceClose:
		m.session.ForceIdle()
		if err := m.forceClose(ctx, open, decision); err != nil {
			out.Err = err
			return out
		}
		closeAt := decision.CloseAt
		open.ClockOut = &closeAt
		open.Note = decision.Note
		open.AutoClosed = true
		m.session.notifyClosed(ctx, open)
	}
	return out
}

func (m *Monitor) forceClose(ctx context.Context, open *domain.SessionRecord, d timesheet.Reconciliation) error {
	if err := m.store.AutoClose(ctx, open.ID, d.CloseAt, d.Note); err != nil {
		return fmt.Errorf("auto closing record %s: %w", open.ID, err)
	}
	return nil
}
