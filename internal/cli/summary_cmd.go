package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// monthValue is a --month flag in YYYY-MM form. Unset means the current month.
type monthValue struct {
	year  int
	month time.Month
}

var _ pflag.Value = (*monthValue)(nil)

func (m *monthValue) String() string {
	if m.year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

func (m *monthValue) Set(s string) error {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM, got %q", s)
	}
	m.year, m.month = t.Year(), t.Month()
	return nil
}

func (m *monthValue) Type() string { return "YYYY-MM" }

// resolve returns the flag's month, or now's month when unset.
func (m *monthValue) resolve(now time.Time) (int, time.Month) {
	if m.year == 0 {
		return now.Year(), now.Month()
	}
	return m.year, m.month
}

// weekOf picks a day in the current or previous week.
func weekOf(now time.Time, last bool) time.Time {
	if last {
		return now.AddDate(0, 0, -7)
	}
	return now
}

func newWeekCmd(app *App) *cobra.Command {
	var last bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show hours per day for the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(cmd.Context()); err != nil {
				return err
			}
			app.reportReconcile(cmd.OutOrStdout())

			rep, err := app.Reports.Weekly(cmd.Context(), app.Tracker.User(), weekOf(app.now(), last))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(rep.Bucket, app.histogramScale()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "Show the previous week")
	return cmd
}

func newMonthCmd(app *App) *cobra.Command {
	var month monthValue

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show a month grouped by week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.start(cmd.Context()); err != nil {
				return err
			}
			app.reportReconcile(cmd.OutOrStdout())

			year, m := month.resolve(app.now())
			rep, err := app.Reports.Monthly(cmd.Context(), app.Tracker.User(), year, m)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonth(rep.Groups, year, m))
			return nil
		},
	}

	cmd.Flags().Var(&month, "month", "Month to show (YYYY-MM, default current)")
	return cmd
}
