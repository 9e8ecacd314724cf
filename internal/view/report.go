package view

import (
	"fmt"
	"slices"
	"time"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

// Sanity-check thresholds.
const (
	MinEntryDuration = 15 * time.Minute
	MaxDayDuration   = 10 * time.Hour
)

// WarningKind classifies a data-quality warning.
type WarningKind int

const (
	WarnShortEntry WarningKind = iota
	WarnNegativeDuration
	WarnLongDay
	WarnWeekend
)

// Warning is attached to an entry or a day. Warnings never abort a report.
type Warning struct {
	Kind    WarningKind
	Message string
}

// EntryView is a single timelog with its derived values.
type EntryView struct {
	Record   *model.Timelog
	Duration model.SignedDuration
	Warnings []Warning
}

// DayView holds the entries of one calendar day.
type DayView struct {
	Date     timecalc.Date
	Total    time.Duration
	Entries  []EntryView
	Warnings []Warning
}

// WeekView holds the days of one ISO week.
type WeekView struct {
	Week  timecalc.Week
	Total time.Duration
	Days  []DayView
}

// IssueSummary is the total time booked on one issue.
type IssueSummary struct {
	Issue   model.IssueKey
	Total   time.Duration
	Entries int
}

// EpicSummary is the total time booked on one epic, split by issue.
type EpicSummary struct {
	Epic   model.EpicKey
	Total  time.Duration
	Issues []IssueSummary
}

// Report is the complete nested view over a set of timelogs.
type Report struct {
	Weeks   []WeekView
	Epics   []EpicSummary
	Total   time.Duration
	Entries int
}

// Empty reports whether the report contains no entries.
func (r Report) Empty() bool { return r.Entries == 0 }

// Build groups records into weeks and days of loc and summarises them by epic
// and issue. Records are ordered by SpentAt; the input slice is not modified.
func Build(records []*model.Timelog, loc *time.Location) Report {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b *model.Timelog) int {
		return a.SpentAt.Compare(b.SpentAt)
	})

	rep := Report{
		Total:   SumDuration(sorted),
		Entries: len(sorted),
	}

	for _, wb := range ByWeek(sorted, loc) {
		week := WeekView{Week: wb.Key, Total: SumDuration(wb.Records)}
		for _, db := range ByDay(wb.Records, loc) {
			week.Days = append(week.Days, buildDay(db))
		}
		rep.Weeks = append(rep.Weeks, week)
	}

	for _, eb := range ByEpic(sorted) {
		epic := EpicSummary{Epic: eb.Key, Total: SumDuration(eb.Records)}
		for _, ib := range ByIssue(eb.Records) {
			epic.Issues = append(epic.Issues, IssueSummary{
				Issue:   ib.Key,
				Total:   SumDuration(ib.Records),
				Entries: len(ib.Records),
			})
		}
		rep.Epics = append(rep.Epics, epic)
	}
	return rep
}

func buildDay(b Bucket[timecalc.Date]) DayView {
	day := DayView{
		Date:     b.Key,
		Total:    SumDuration(b.Records),
		Warnings: CheckDay(b.Key, SumDuration(b.Records)),
	}
	for _, r := range b.Records {
		day.Entries = append(day.Entries, EntryView{
			Record:   r,
			Duration: r.Duration(),
			Warnings: CheckEntry(r),
		})
	}
	return day
}

// CheckEntry returns the warnings for a single timelog.
func CheckEntry(r *model.Timelog) []Warning {
	var warnings []Warning
	d := r.Duration()
	if !d.Positive {
		warnings = append(warnings, Warning{
			Kind:    WarnNegativeDuration,
			Message: fmt.Sprintf("Negative time logged (-%s)! Is this correct?", timecalc.FormatDuration(d.Magnitude)),
		})
	}
	if d.Magnitude < MinEntryDuration {
		warnings = append(warnings, Warning{
			Kind:    WarnShortEntry,
			Message: fmt.Sprintf("Less than %d minutes! Is this correct?", int(MinEntryDuration/time.Minute)),
		})
	}
	return warnings
}

// CheckDay returns the warnings for a day with the given total.
func CheckDay(d timecalc.Date, total time.Duration) []Warning {
	var warnings []Warning
	if total > MaxDayDuration {
		warnings = append(warnings, Warning{
			Kind:    WarnLongDay,
			Message: fmt.Sprintf("More than %d hours! Is this correct?", int(MaxDayDuration/time.Hour)),
		})
	}
	if d.IsWeekend() {
		warnings = append(warnings, Warning{
			Kind:    WarnWeekend,
			Message: "You shouldn't work on the weekend, right?",
		})
	}
	return warnings
}
