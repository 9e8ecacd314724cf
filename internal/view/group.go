// Package view partitions timelogs into ordered groups and derives the
// week/day/issue/epic views rendered by the report.
package view

import (
	"slices"
	"time"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

// Bucket is one group of records sharing the same key.
type Bucket[K any] struct {
	Key     K
	Records []*model.Timelog
}

// GroupBy partitions records by key. Buckets are sorted ascending by cmp;
// within a bucket the records keep their input order.
func GroupBy[K comparable](records []*model.Timelog, key func(*model.Timelog) K, cmp func(a, b K) int) []Bucket[K] {
	index := map[K]int{}
	var buckets []Bucket[K]
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket[K]{Key: k})
		}
		buckets[i].Records = append(buckets[i].Records, r)
	}
	slices.SortStableFunc(buckets, func(a, b Bucket[K]) int { return cmp(a.Key, b.Key) })
	return buckets
}

// ByWeek groups records by the ISO week of their date in loc.
func ByWeek(records []*model.Timelog, loc *time.Location) []Bucket[timecalc.Week] {
	return GroupBy(records,
		func(r *model.Timelog) timecalc.Week { return r.DateIn(loc).ISOWeek() },
		timecalc.Week.Compare)
}

// ByDay groups records by their calendar date in loc.
func ByDay(records []*model.Timelog, loc *time.Location) []Bucket[timecalc.Date] {
	return GroupBy(records,
		func(r *model.Timelog) timecalc.Date { return r.DateIn(loc) },
		timecalc.Date.Compare)
}

// ByIssue groups records by the full issue value.
func ByIssue(records []*model.Timelog) []Bucket[model.IssueKey] {
	return GroupBy(records,
		func(r *model.Timelog) model.IssueKey { return r.Issue.Key() },
		model.IssueKey.Compare)
}

// ByEpic groups records by epic. Records without an epic share the
// model.NoEpic bucket, which sorts first.
func ByEpic(records []*model.Timelog) []Bucket[model.EpicKey] {
	return GroupBy(records,
		func(r *model.Timelog) model.EpicKey { return r.Issue.EpicKey() },
		model.EpicKey.Compare)
}

// SumDuration adds up the magnitudes of the records' durations. A negative
// entry contributes its absolute value.
//
// TODO: confirm with product owners whether negative bookings should be
// subtracted instead; the magnitude sum matches the historical report output.
func SumDuration(records []*model.Timelog) time.Duration {
	var total time.Duration
	for _, r := range records {
		total += r.Duration().Magnitude
	}
	return total
}

// Refs returns pointers into records without copying them.
func Refs(records []model.Timelog) []*model.Timelog {
	refs := make([]*model.Timelog, len(records))
	for i := range records {
		refs[i] = &records[i]
	}
	return refs
}
