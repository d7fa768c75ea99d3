package timesheet

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// DefaultMaxShift caps a session that was never clocked out.
const DefaultMaxShift = 8 * time.Hour

// Action is what reconciliation decided to do with a leftover open record.
type Action int

const (
	ActionNone Action = iota
	ActionAdopt
	ActionForceClose
)

func (a Action) String() string {
	switch a {
	case ActionAdopt:
		return "adopt"
	case ActionForceClose:
		return "force_close"
	default:
		return "none"
	}
}

// Reconciliation is the outcome of comparing an open record with the cap.
type Reconciliation struct {
	Action  Action
	State   domain.ClockState
	CloseAt time.Time
	Note    string
}

// AutoClockOutNote is the marker note written on force-closed records.
func AutoClockOutNote(maxShift time.Duration) string {
	return fmt.Sprintf("Auto clocked out after %s shift cap", formatShift(maxShift))
}

// Reconcile decides what to do with the user's open record at now. A record
// open for at least maxShift is closed at exactly ClockIn+maxShift.
func Reconcile(open *domain.SessionRecord, now time.Time, maxShift time.Duration) Reconciliation {
	if open == nil || !open.IsOpen() {
		return Reconciliation{Action: ActionNone, State: domain.StateIdle}
	}
	if maxShift <= 0 {
		maxShift = DefaultMaxShift
	}
	if now.Sub(open.ClockIn) >= maxShift {
		return Reconciliation{
			Action:  ActionForceClose,
			State:   domain.StateIdle,
			CloseAt: open.ClockIn.Add(maxShift),
			Note:    AutoClockOutNote(maxShift),
		}
	}
	return Reconciliation{Action: ActionAdopt, State: domain.StateClockedIn}
}

// formatShift renders whole hours as "8h" and anything else as a duration.
func formatShift(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return d.String()
}
