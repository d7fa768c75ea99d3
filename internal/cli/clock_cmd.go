package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/spf13/cobra"
)

func newInCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "in",
		Short: "Clock in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			app.reportReconcile(out)

			if snap := app.Tracker.Snapshot(); snap.State == domain.StateClockedIn {
				fmt.Fprintf(out, "Already clocked in since %s.\n", formatter.FormatClock(snap.ClockIn))
				return nil
			}
			snap, err := app.Tracker.ClockIn(ctx)
			if err != nil {
				return fmt.Errorf("clocking in: %w", err)
			}
			fmt.Fprintf(out, "%s at %s.\n", formatter.StyleGreen.Render("Clocked in"), formatter.FormatClock(snap.ClockIn))
			return nil
		},
	}
}

func newOutCmd(app *App) *cobra.Command {
	var note string
	var skipNote bool

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Clock out and leave a note for the shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			app.reportReconcile(out)

			if app.Tracker.Snapshot().State != domain.StateClockedIn {
				fmt.Fprintln(out, "Not clocked in.")
				return nil
			}
			snap, err := app.Tracker.ClockOut(ctx)
			if err != nil {
				return fmt.Errorf("clocking out: %w", err)
			}
			pending := snap.Pending
			fmt.Fprintf(out, "%s at %s after %sh.\n",
				formatter.StyleYellow.Render("Clocked out"),
				formatter.FormatClock(*pending.ClockOut),
				formatter.FormatHours(pending.Duration()))

			return finishNote(ctx, app, out, pending, note, cmd.Flags().Changed("note"), skipNote)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note for the shift (cut to 75 characters)")
	cmd.Flags().BoolVar(&skipNote, "skip-note", false, "Clock out without a note")
	cmd.MarkFlagsMutuallyExclusive("note", "skip-note")

	return cmd
}

// finishNote resolves the pending note from the flags, an interactive prompt
// or, failing both, by skipping it.
func finishNote(ctx context.Context, app *App, out io.Writer, pending *domain.SessionRecord, note string, noteSet, skip bool) error {
	if !noteSet && !skip {
		if !app.interactive() {
			skip = true
		} else {
			var err error
			note, skip, err = app.PromptNote(ctx, pending)
			if err != nil {
				_, _ = app.Tracker.SkipNote(ctx)
				return fmt.Errorf("reading note: %w", err)
			}
		}
	}

	if skip || note == "" {
		if _, err := app.Tracker.SkipNote(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, formatter.Dim("No note saved."))
		return nil
	}
	if _, err := app.Tracker.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("saving note: %w", err)
	}
	fmt.Fprintf(out, "Note saved: %s\n", domain.TruncateNote(note))
	return nil
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the clock state and this week's hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			app.reportReconcile(out)
			fmt.Fprintln(out, formatter.FormatStatus(app.statusView()))
			return nil
		},
	}
}

func (a *App) statusView() formatter.StatusView {
	snap := a.Tracker.Snapshot()
	now := a.now()
	v := formatter.StatusView{
		User:      a.Tracker.User().Name(),
		State:     snap.State,
		Since:     snap.ClockIn,
		Elapsed:   a.Tracker.Elapsed(now),
		WeekTotal: a.Tracker.Week().Total(),
	}
	if snap.Pending != nil {
		v.PendingHours = snap.Pending.Duration()
	}
	return v
}
