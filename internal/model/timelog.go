package model

import (
	"strings"
	"time"

	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

// Epic groups issues. Issues without an epic carry a nil *Epic.
type Epic struct {
	Title string `json:"title"`
}

// Group is the namespace a project belongs to.
type Group struct {
	FullName string `json:"fullName"`
}

// Project is the project an issue lives in.
type Project struct {
	Group *Group `json:"group"`
}

// Issue is the issue a timelog was booked on.
type Issue struct {
	Title string `json:"title"`
	// WebURL is the full http link to the issue.
	WebURL string `json:"webUrl"`
	Epic   *Epic  `json:"epic"`
}

// Timelog is a single time entry as returned by the GitLab API.
type Timelog struct {
	SpentAt time.Time `json:"spentAt"`
	// TimeSpent is in seconds and may be negative when the entry was booked
	// with a negative amount upstream.
	TimeSpent int64   `json:"timeSpent"`
	Summary   *string `json:"summary"`
	Issue     Issue   `json:"issue"`
	Project   Project `json:"project"`
}

// SignedDuration is a duration split into sign and magnitude.
type SignedDuration struct {
	// Positive is true for zero and positive values.
	Positive  bool
	Magnitude time.Duration
}

// Duration decomposes the raw TimeSpent value. Zero counts as positive.
func (t *Timelog) Duration() SignedDuration {
	secs := t.TimeSpent
	if secs < 0 {
		return SignedDuration{Positive: false, Magnitude: time.Duration(-secs) * time.Second}
	}
	return SignedDuration{Positive: true, Magnitude: time.Duration(secs) * time.Second}
}

// DateIn returns the calendar date of SpentAt in loc.
func (t *Timelog) DateIn(loc *time.Location) timecalc.Date {
	return timecalc.DateOf(t.SpentAt.In(loc))
}

// SummaryLines returns the summary split into lines, or nil when empty.
func (t *Timelog) SummaryLines() []string {
	if t.Summary == nil || strings.TrimSpace(*t.Summary) == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(*t.Summary, "\n"), "\n")
}

// EpicTitle returns the epic title and whether the issue has an epic.
func (t *Timelog) EpicTitle() (string, bool) {
	if t.Issue.Epic == nil {
		return "", false
	}
	return t.Issue.Epic.Title, true
}

// GroupName returns the project group's full name and whether it is set.
func (t *Timelog) GroupName() (string, bool) {
	if t.Project.Group == nil {
		return "", false
	}
	return t.Project.Group.FullName, true
}

// EpicKey identifies an epic, including the absent one, as a comparable value.
type EpicKey struct {
	Title string
	Valid bool
}

// NoEpic is the key of issues without an epic.
var NoEpic = EpicKey{}

// Compare orders epic keys. The absent epic sorts first.
func (k EpicKey) Compare(o EpicKey) int {
	if k.Valid != o.Valid {
		if !k.Valid {
			return -1
		}
		return 1
	}
	return strings.Compare(k.Title, o.Title)
}

func (k EpicKey) String() string {
	if !k.Valid {
		return "<no epic>"
	}
	return k.Title
}

// EpicKey returns the grouping key for the issue's epic.
func (i Issue) EpicKey() EpicKey {
	if i.Epic == nil {
		return NoEpic
	}
	return EpicKey{Title: i.Epic.Title, Valid: true}
}

// IssueKey identifies an issue by its full value. Two issues with the same
// title but different URLs are different keys.
type IssueKey struct {
	Title  string
	WebURL string
	Epic   EpicKey
}

// Key returns the grouping key of i.
func (i Issue) Key() IssueKey {
	return IssueKey{Title: i.Title, WebURL: i.WebURL, Epic: i.EpicKey()}
}

// Compare orders issue keys by title, then URL, then epic.
func (k IssueKey) Compare(o IssueKey) int {
	if c := strings.Compare(k.Title, o.Title); c != 0 {
		return c
	}
	if c := strings.Compare(k.WebURL, o.WebURL); c != 0 {
		return c
	}
	return k.Epic.Compare(o.Epic)
}
