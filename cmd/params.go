package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Tiliavir/gitlab-timelogs/internal/config"
	"github.com/Tiliavir/gitlab-timelogs/internal/filter"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

const defaultAfter = "1970-01-01"

var (
	// ErrMissingParam is returned when host, username or token is not set.
	ErrMissingParam = errors.New("missing required parameter")
	// ErrInvalidRange is returned when --after is later than --before.
	ErrInvalidRange = errors.New("invalid date range")
)

// Params is the resolved set of parameters for one run.
type Params struct {
	Host     string
	Username string
	Token    string
	// After and Before are inclusive.
	After           timecalc.Date
	Before          timecalc.Date
	ExtendedSummary bool
}

// resolveParams merges flags, environment and config file values held by v
// and validates them. No network access happens before this succeeds.
func resolveParams(v *viper.Viper, after, before string, loc *time.Location) (Params, error) {
	p := Params{
		Host:     normalizeHost(v.GetString(config.KeyHost)),
		Username: strings.TrimSpace(v.GetString(config.KeyUsername)),
		Token:    strings.TrimSpace(v.GetString(config.KeyToken)),
	}

	var missing []string
	if p.Host == "" {
		missing = append(missing, "--host")
	}
	if p.Username == "" {
		missing = append(missing, "--username")
	}
	if p.Token == "" {
		missing = append(missing, "--token")
	}
	if len(missing) > 0 {
		return Params{}, fmt.Errorf("%w: %s", ErrMissingParam, strings.Join(missing, ", "))
	}

	if after == "" {
		after = defaultAfter
	}
	var err error
	if p.After, err = timecalc.ParseDate(after); err != nil {
		return Params{}, fmt.Errorf("--after: %w", err)
	}
	if before == "" {
		p.Before = timecalc.Today(loc)
	} else if p.Before, err = timecalc.ParseDate(before); err != nil {
		return Params{}, fmt.Errorf("--before: %w", err)
	}

	if p.After.After(p.Before) {
		return Params{}, fmt.Errorf("%w: --after %s is later than --before %s", ErrInvalidRange, p.After, p.Before)
	}
	return p, nil
}

// normalizeHost strips a scheme and trailing slashes from host.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimRight(host, "/")
}

// filterFlags holds the record selection options shared by all commands.
type filterFlags struct {
	epic    string
	noEpic  bool
	group   string
	noGroup bool
	week    string
}

var filters filterFlags

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.epic, "epic", "", "only show timelogs of issues in this epic")
	fs.BoolVar(&f.noEpic, "no-epic", false, "only show timelogs of issues without an epic")
	fs.StringVar(&f.group, "group", "", "only show timelogs of projects in this group (full name)")
	fs.BoolVar(&f.noGroup, "no-group", false, "only show timelogs of projects without a group")
	fs.StringVar(&f.week, "week", "", "only show timelogs of this ISO week, e.g. 2024-W23")
}

// build turns the flags into filters, always restricting to [After, Before].
func (f filterFlags) build(p Params, loc *time.Location) ([]filter.Filter, error) {
	if f.epic != "" && f.noEpic {
		return nil, errors.New("--epic and --no-epic are mutually exclusive")
	}
	if f.group != "" && f.noGroup {
		return nil, errors.New("--group and --no-group are mutually exclusive")
	}

	out := []filter.Filter{filter.WithinInclusive(p.After, p.Before, loc)}
	switch {
	case f.epic != "":
		out = append(out, filter.HasEpic(f.epic))
	case f.noEpic:
		out = append(out, filter.HasNoEpic())
	}
	switch {
	case f.group != "":
		out = append(out, filter.HasGroup(f.group))
	case f.noGroup:
		out = append(out, filter.HasNoGroup())
	}
	if f.week != "" {
		w, err := timecalc.ParseWeek(f.week)
		if err != nil {
			return nil, fmt.Errorf("--week: %w", err)
		}
		out = append(out, filter.InWeek(w, loc))
	}
	return out, nil
}
