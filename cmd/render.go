package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
	"github.com/Tiliavir/gitlab-timelogs/internal/view"
)

// Column offsets of warnings, aligned under the value they refer to.
const (
	entryIndent   = "  "
	summaryIndent = "             "
	entryWarnAt   = 6
	dayWarnAt     = 18
	weekendWarnAt = 12
)

// renderer writes views as coloured text. Colours are dropped automatically
// when w is not a terminal.
type renderer struct {
	w io.Writer

	heading lipgloss.Style
	day     lipgloss.Style
	hours   lipgloss.Style
	epic    lipgloss.Style
	title   lipgloss.Style
	summary lipgloss.Style
	warn    lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	lr := lipgloss.NewRenderer(w)
	return &renderer{
		w:       w,
		heading: lr.NewStyle().Bold(true).Underline(true),
		day:     lr.NewStyle().Bold(true),
		hours:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		epic:    lr.NewStyle().Faint(true),
		title:   lr.NewStyle().Bold(true),
		summary: lr.NewStyle().Foreground(lipgloss.Color("8")),
		warn:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

// duration renders a signed duration in the fixed-width " 3h 07m" style.
func (r *renderer) duration(d model.SignedDuration) string {
	s := timecalc.FormatHHMM(d.Magnitude)
	if !d.Positive {
		s = "-" + strings.TrimLeft(s, " ")
		s = fmt.Sprintf("%7s", s)
	}
	return r.hours.Render(s)
}

func (r *renderer) total(d time.Duration) string {
	return r.duration(model.SignedDuration{Positive: true, Magnitude: d})
}

// annotate prints a warning pointing at the line above.
func (r *renderer) annotate(msg string, indent int) {
	fmt.Fprintf(r.w, "%s%s\n", strings.Repeat(" ", indent), r.warn.Render("^ WARN: "+msg))
}

func (r *renderer) notice(msg string) {
	fmt.Fprintln(r.w, r.warn.Render("WARN: "+msg))
}

func (r *renderer) report(rep view.Report, extended bool) {
	for i, week := range rep.Weeks {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		r.week(week)
	}
	if extended {
		fmt.Fprintln(r.w)
		r.epicSummary(rep)
	}
}

func (r *renderer) week(w view.WeekView) {
	fmt.Fprintf(r.w, "%s  (%s)\n", r.heading.Render("Week "+w.Week.Label()), r.total(w.Total))
	for _, d := range w.Days {
		fmt.Fprintln(r.w)
		r.dayView(d)
	}
}

func (r *renderer) dayView(d view.DayView) {
	label := fmt.Sprintf("%s, %s", d.Date, d.Date.Weekday().String()[:3])
	fmt.Fprintf(r.w, "%s  (%s)\n", r.day.Render(label), r.total(d.Total))
	for _, w := range d.Warnings {
		indent := dayWarnAt
		if w.Kind == view.WarnWeekend {
			indent = weekendWarnAt
		}
		r.annotate(w.Message, indent)
	}
	for _, e := range d.Entries {
		r.entry(e)
	}
}

func (r *renderer) entry(e view.EntryView) {
	fmt.Fprintf(r.w, "%s%s  [%s]: %s\n",
		entryIndent,
		r.duration(e.Duration),
		r.epic.Render(e.Record.Issue.EpicKey().String()),
		r.title.Render(e.Record.Issue.Title))
	for _, w := range e.Warnings {
		r.annotate(w.Message, entryWarnAt)
	}
	for _, line := range e.Record.SummaryLines() {
		fmt.Fprintf(r.w, "%s%s\n", summaryIndent, r.summary.Render(line))
	}
}

func (r *renderer) epicSummary(rep view.Report) {
	fmt.Fprintln(r.w, r.heading.Render("Summary by epic and issue"))
	for _, e := range rep.Epics {
		fmt.Fprintf(r.w, "%s%s  %s\n", entryIndent, r.total(e.Total), r.title.Render(e.Epic.String()))
		for _, is := range e.Issues {
			fmt.Fprintf(r.w, "%s  %s  %s (%d %s)\n", entryIndent, r.total(is.Total), is.Issue.Title, is.Entries, plural(is.Entries, "entry", "entries"))
		}
	}
	fmt.Fprintf(r.w, "\n%s%s  %s (%d %s)\n", entryIndent, r.total(rep.Total), r.day.Render("Total"), rep.Entries, plural(rep.Entries, "entry", "entries"))
}

// emptyResult explains why nothing is shown.
func (r *renderer) emptyResult(filtered bool, hints []string) {
	if !filtered {
		r.notice("Empty response. Is the username correct? Does the token have read permission?")
		return
	}
	r.notice("No timelogs match the given filters.")
	for _, h := range hints {
		fmt.Fprintln(r.w, h)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
