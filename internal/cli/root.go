package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/service"
	"github.com/alexanderramin/shiftlog/internal/timesheet"
	"github.com/spf13/cobra"
)

// NotePrompter asks for the note of a shift that was just closed. skip is
// true when the user declined to write one.
type NotePrompter func(ctx context.Context, pending *domain.SessionRecord) (note string, skip bool, err error)

// App holds what CLI commands need from the wired application.
type App struct {
	Tracker *service.Tracker
	Reports service.ReportService
	Clock   service.Clock
	// MaxShift scales the weekly histogram bars.
	MaxShift time.Duration

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	PromptNote    NotePrompter

	startOnce sync.Once
	startErr  error
	outcome   service.ReconcileOutcome
}

// NewRootCmd creates the top-level "shiftlog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "shiftlog",
		Short:         "Work shift tracker with weekly and monthly reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInCmd(app),
		newOutCmd(app),
		newStatusCmd(app),
		newWeekCmd(app),
		newMonthCmd(app),
		newReportCmd(app),
		newDashboardCmd(app),
	)

	return root
}

// start reconciles and loads the tracker once per process.
func (a *App) start(ctx context.Context) error {
	a.startOnce.Do(func() {
		a.outcome, a.startErr = a.Tracker.Start(ctx)
	})
	return a.startErr
}

func (a *App) location() *time.Location {
	loc, err := domain.LoadZone(a.Tracker.User().Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (a *App) now() time.Time {
	clock := a.Clock
	if clock == nil {
		clock = service.SystemClock{}
	}
	return clock.Now().In(a.location())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive() && a.PromptNote != nil
}

func (a *App) histogramScale() float64 {
	if a.MaxShift <= 0 {
		return timesheet.DefaultMaxShift.Hours()
	}
	return a.MaxShift.Hours()
}

// reportReconcile tells the user what startup reconciliation did.
func (a *App) reportReconcile(w io.Writer) {
	out := a.outcome
	switch {
	case out.Err != nil:
		fmt.Fprintln(w, formatter.StyleYellow.Render("Could not check for an unfinished shift: "+out.Err.Error()))
	case out.Action == timesheet.ActionForceClose && out.Record != nil && out.Record.ClockOut != nil:
		fmt.Fprintf(w, "%s shift from %s was auto clocked out at %s.\n",
			formatter.StyleYellow.Render("!"),
			formatter.FormatClock(out.Record.ClockIn.In(a.location())),
			formatter.FormatClock(out.Record.ClockOut.In(a.location())))
	}
}
