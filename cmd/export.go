package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
	"github.com/Tiliavir/gitlab-timelogs/internal/view"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export timelogs to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

// exportRow is one timelog in export output.
type exportRow struct {
	Date     string `json:"date"`
	SpentAt  string `json:"spent_at"`
	Seconds  int64  `json:"seconds"`
	Duration string `json:"duration"`
	Issue    string `json:"issue"`
	URL      string `json:"url"`
	Epic     string `json:"epic,omitempty"`
	Group    string `json:"group,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("unknown export format %q (want csv or json)", exportFormat)
	}
	loc := time.Local

	sel, err := fetchSelection(cmd, loc)
	if err != nil {
		return err
	}

	rows := exportRows(sel.selected, loc)
	if exportFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	return writeCSV(cmd.OutOrStdout(), rows)
}

// exportRows flattens records in report order: by day, then by SpentAt.
func exportRows(records []*model.Timelog, loc *time.Location) []exportRow {
	rows := []exportRow{}
	for _, w := range view.Build(records, loc).Weeks {
		for _, d := range w.Days {
			for _, e := range d.Entries {
				rows = append(rows, toExportRow(e, d.Date.String(), loc))
			}
		}
	}
	return rows
}

func toExportRow(e view.EntryView, date string, loc *time.Location) exportRow {
	r := e.Record
	row := exportRow{
		Date:     date,
		SpentAt:  r.SpentAt.In(loc).Format(time.RFC3339),
		Seconds:  r.TimeSpent,
		Duration: formatSigned(e.Duration),
		Issue:    r.Issue.Title,
		URL:      r.Issue.WebURL,
		Summary:  strings.Join(r.SummaryLines(), "\n"),
	}
	row.Epic, _ = r.EpicTitle()
	row.Group, _ = r.GroupName()
	return row
}

func formatSigned(d model.SignedDuration) string {
	s := strings.TrimSpace(timecalc.FormatHHMM(d.Magnitude))
	if !d.Positive {
		return "-" + s
	}
	return s
}

func writeJSON(w io.Writer, rows []exportRow) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeCSV(w io.Writer, rows []exportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "spent_at", "seconds", "issue", "url", "epic", "group", "summary"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date,
			r.SpentAt,
			strconv.FormatInt(r.Seconds, 10),
			r.Issue,
			r.URL,
			r.Epic,
			r.Group,
			r.Summary,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
