// Package filter selects timelogs by date window, group and epic.
package filter

import (
	"iter"
	"time"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

// Filter reports whether a timelog should be kept.
type Filter func(*model.Timelog) bool

// Noop keeps every timelog.
func Noop() Filter {
	return func(*model.Timelog) bool { return true }
}

// All keeps a timelog only if every filter keeps it. Nil filters are skipped.
func All(filters ...Filter) Filter {
	return func(r *model.Timelog) bool {
		for _, f := range filters {
			if f != nil && !f(r) {
				return false
			}
		}
		return true
	}
}

// AfterInclusive keeps timelogs dated on or after d in loc.
func AfterInclusive(d timecalc.Date, loc *time.Location) Filter {
	return func(r *model.Timelog) bool { return !r.DateIn(loc).Before(d) }
}

// BeforeInclusive keeps timelogs dated on or before d in loc.
func BeforeInclusive(d timecalc.Date, loc *time.Location) Filter {
	return func(r *model.Timelog) bool { return !r.DateIn(loc).After(d) }
}

// WithinInclusive keeps timelogs dated between low and high in loc.
func WithinInclusive(low, high timecalc.Date, loc *time.Location) Filter {
	return All(AfterInclusive(low, loc), BeforeInclusive(high, loc))
}

// InWeek keeps timelogs whose date in loc falls into the ISO week w.
func InWeek(w timecalc.Week, loc *time.Location) Filter {
	return func(r *model.Timelog) bool { return r.DateIn(loc).ISOWeek() == w }
}

// HasGroup keeps timelogs of projects in the group with the given full name.
func HasGroup(name string) Filter {
	return func(r *model.Timelog) bool {
		g, ok := r.GroupName()
		return ok && g == name
	}
}

// HasNoGroup keeps timelogs of projects without a group.
func HasNoGroup() Filter {
	return func(r *model.Timelog) bool {
		_, ok := r.GroupName()
		return !ok
	}
}

// HasEpic keeps timelogs on issues of the epic with the given title.
func HasEpic(title string) Filter {
	return func(r *model.Timelog) bool {
		e, ok := r.EpicTitle()
		return ok && e == title
	}
}

// HasNoEpic keeps timelogs on issues without an epic.
func HasNoEpic() Filter {
	return func(r *model.Timelog) bool {
		_, ok := r.EpicTitle()
		return !ok
	}
}

// Apply lazily yields the timelogs of records kept by all filters. The
// sequence can be iterated any number of times.
func Apply(records []model.Timelog, filters ...Filter) iter.Seq[*model.Timelog] {
	keep := All(filters...)
	return func(yield func(*model.Timelog) bool) {
		for i := range records {
			if !keep(&records[i]) {
				continue
			}
			if !yield(&records[i]) {
				return
			}
		}
	}
}
