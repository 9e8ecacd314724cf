package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/gitlab-timelogs/internal/view"
)

var extendedSummary bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show timelogs grouped by week and day (default command)",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	registerReportFlags(reportCmd)
}

func registerReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&extendedSummary, "extended-summary", false, "also show totals per epic and issue")
}

func runReport(cmd *cobra.Command, args []string) error {
	loc := time.Local

	sel, err := fetchSelection(cmd, loc)
	if err != nil {
		return err
	}

	rep := view.Build(sel.selected, loc)
	r := newRenderer(cmd.OutOrStdout())
	if rep.Empty() {
		r.emptyResult(len(sel.all) > 0, sel.hints())
		return nil
	}
	r.report(rep, sel.params.ExtendedSummary)
	return nil
}
