package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
	"github.com/Tiliavir/gitlab-timelogs/internal/view"
)

var listDays int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List timelogs of the most recent days that have bookings",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listDays, "days", 7, "number of most recent days with timelogs to show")
}

func runList(cmd *cobra.Command, args []string) error {
	if listDays < 1 {
		return errors.New("--days must be at least 1")
	}
	loc := time.Local

	sel, err := fetchSelection(cmd, loc)
	if err != nil {
		return err
	}

	r := newRenderer(cmd.OutOrStdout())
	recent := lastDays(view.ByDay(sel.selected, loc), listDays)
	if len(recent) == 0 {
		r.emptyResult(len(sel.all) > 0, sel.hints())
		return nil
	}

	var records []*model.Timelog
	for _, d := range recent {
		records = append(records, d.Records...)
	}
	printList(r, view.Build(records, loc))
	return nil
}

// lastDays keeps the n most recent day buckets.
func lastDays(days []view.Bucket[timecalc.Date], n int) []view.Bucket[timecalc.Date] {
	if n >= len(days) {
		return days
	}
	return days[len(days)-n:]
}

// printList prints days without week headings, oldest first.
func printList(r *renderer, rep view.Report) {
	first := true
	for _, w := range rep.Weeks {
		for _, d := range w.Days {
			if !first {
				fmt.Fprintln(r.w)
			}
			first = false
			r.dayView(d)
		}
	}
}
