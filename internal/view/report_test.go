package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
	"github.com/Tiliavir/gitlab-timelogs/internal/view"
)

func kinds(ws []view.Warning) []view.WarningKind {
	var out []view.WarningKind
	for _, w := range ws {
		out = append(out, w.Kind)
	}
	return out
}

func TestBuildNestsWeeksAndDays(t *testing.T) {
	records := []model.Timelog{
		timelog("2024-06-10T09:00:00Z", 3600, issueA),
		timelog("2024-06-03T13:00:00Z", 3600, issueB),
		timelog("2024-06-03T09:00:00Z", 2*3600, issueA),
	}

	rep := view.Build(view.Refs(records), time.UTC)
	assert.False(t, rep.Empty())
	assert.Equal(t, 3, rep.Entries)
	assert.Equal(t, 4*time.Hour, rep.Total)

	require.Len(t, rep.Weeks, 2)
	w23 := rep.Weeks[0]
	assert.Equal(t, timecalc.Week{Year: 2024, Week: 23}, w23.Week)
	assert.Equal(t, 3*time.Hour, w23.Total)
	require.Len(t, w23.Days, 1)
	require.Len(t, w23.Days[0].Entries, 2)
	// Sorted by SpentAt within the day.
	assert.Equal(t, "A", w23.Days[0].Entries[0].Record.Issue.Title)
	assert.Equal(t, "B", w23.Days[0].Entries[1].Record.Issue.Title)

	assert.Equal(t, time.Hour, rep.Weeks[1].Total)

	// Input is left untouched.
	assert.Equal(t, "2024-06-10", records[0].SpentAt.Format(timecalc.DateLayout))
}

func TestBuildEpicSummary(t *testing.T) {
	records := []model.Timelog{
		timelog("2024-06-03T09:00:00Z", 3600, issueA),
		timelog("2024-06-04T09:00:00Z", 1800, issueA),
		timelog("2024-06-04T10:00:00Z", 900, issueB),
	}

	rep := view.Build(view.Refs(records), time.UTC)
	require.Len(t, rep.Epics, 2)

	assert.Equal(t, model.NoEpic, rep.Epics[0].Epic)
	assert.Equal(t, 15*time.Minute, rep.Epics[0].Total)

	assert.Equal(t, "Epic 1", rep.Epics[1].Epic.Title)
	assert.Equal(t, 90*time.Minute, rep.Epics[1].Total)
	require.Len(t, rep.Epics[1].Issues, 1)
	assert.Equal(t, 2, rep.Epics[1].Issues[0].Entries)
}

func TestBuildFlagsNegativeDurationWithoutFailing(t *testing.T) {
	records := []model.Timelog{
		timelog("2024-06-03T09:00:00Z", -3600, issueA),
		timelog("2024-06-03T10:00:00Z", 1800, issueA),
	}

	rep := view.Build(view.Refs(records), time.UTC)
	day := rep.Weeks[0].Days[0]
	assert.Equal(t, 90*time.Minute, day.Total)

	neg := day.Entries[0]
	assert.False(t, neg.Duration.Positive)
	assert.Equal(t, time.Hour, neg.Duration.Magnitude)
	assert.Equal(t, []view.WarningKind{view.WarnNegativeDuration}, kinds(neg.Warnings))
	assert.Empty(t, day.Entries[1].Warnings)
}

func TestCheckEntryShort(t *testing.T) {
	short := timelog("2024-06-03T09:00:00Z", 14*60+59, issueA)
	exact := timelog("2024-06-03T09:00:00Z", 15*60, issueA)

	assert.Equal(t, []view.WarningKind{view.WarnShortEntry}, kinds(view.CheckEntry(&short)))
	assert.Empty(t, view.CheckEntry(&exact))
}

func TestCheckDay(t *testing.T) {
	monday := date("2024-06-03")
	saturday := date("2024-06-08")

	assert.Empty(t, view.CheckDay(monday, 10*time.Hour))
	assert.Equal(t, []view.WarningKind{view.WarnLongDay}, kinds(view.CheckDay(monday, 10*time.Hour+time.Minute)))
	assert.Equal(t, []view.WarningKind{view.WarnWeekend}, kinds(view.CheckDay(saturday, time.Hour)))
	assert.Equal(t, []view.WarningKind{view.WarnLongDay, view.WarnWeekend}, kinds(view.CheckDay(saturday, 11*time.Hour)))
}

func TestBuildEmpty(t *testing.T) {
	rep := view.Build(nil, time.UTC)
	assert.True(t, rep.Empty())
	assert.Empty(t, rep.Weeks)
	assert.Empty(t, rep.Epics)
}
