package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/shiftlog/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write PDF reports",
	}
	cmd.AddCommand(newReportWeekCmd(app), newReportMonthCmd(app))
	return cmd
}

func newReportWeekCmd(app *App) *cobra.Command {
	var last bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Write the weekly report as PDF",
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
			if outPath == "" {
				outPath = fmt.Sprintf("weekly-report-%s.pdf", rep.Start.Format("2006-01-02"))
			}
			if err := writeDocument(outPath, rep.Document); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d page(s) to %s\n", len(rep.Document.Pages), outPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "Report the previous week")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default weekly-report-<monday>.pdf)")
	return cmd
}

func newReportMonthCmd(app *App) *cobra.Command {
	var month monthValue
	var outPath string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Write the monthly report as PDF",
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
			if outPath == "" {
				outPath = fmt.Sprintf("monthly-report-%04d-%02d.pdf", year, int(m))
			}
			if err := writeDocument(outPath, rep.Document); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d page(s) to %s\n", len(rep.Document.Pages), outPath)
			return nil
		},
	}

	cmd.Flags().Var(&month, "month", "Month to report (YYYY-MM, default current)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default monthly-report-<YYYY-MM>.pdf)")
	return cmd
}

// writeDocument encodes doc to path, creating parent directories.
func writeDocument(path string, doc report.Document) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := report.WritePDF(f, doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
