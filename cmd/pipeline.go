package cmd

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tiliavir/gitlab-timelogs/internal/filter"
	"github.com/Tiliavir/gitlab-timelogs/internal/gitlab"
	"github.com/Tiliavir/gitlab-timelogs/internal/model"
)

// selection is the outcome of fetching and filtering timelogs.
type selection struct {
	params   Params
	all      []model.Timelog
	selected []*model.Timelog
}

// fetchSelection resolves the parameters, fetches every page of timelogs and
// applies the filter flags. Any fetch error aborts the run.
func fetchSelection(cmd *cobra.Command, loc *time.Location) (*selection, error) {
	p, err := resolveParams(viper.GetViper(), afterFlag, beforeFlag, loc)
	if err != nil {
		return nil, err
	}
	p.ExtendedSummary = extendedSummary

	fs, err := filters.build(p, loc)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	client := gitlab.NewClient(ctx, p.Host, p.Token,
		gitlab.WithLocation(loc),
		gitlab.WithLogger(slog.Default().With("component", "gitlab")))
	slog.Debug("fetching timelogs",
		"endpoint", client.Endpoint(),
		"username", p.Username,
		"after", p.After.String(),
		"before", p.Before.String())

	records, err := client.FetchAll(ctx, p.Username, p.After, p.Before)
	if err != nil {
		return nil, err
	}

	return &selection{
		params:   p,
		all:      records,
		selected: slices.Collect(filter.Apply(records, fs...)),
	}, nil
}

// hints suggests similar names when an epic or group filter removed every
// fetched timelog.
func (s *selection) hints() []string {
	if len(s.selected) > 0 || len(s.all) == 0 {
		return nil
	}
	var out []string
	if filters.epic != "" {
		if sug := filter.Suggest(filters.epic, filter.EpicTitles(s.all)); len(sug) > 0 {
			out = append(out, fmt.Sprintf("No timelogs in epic %q. Did you mean: %s?", filters.epic, strings.Join(sug, ", ")))
		}
	}
	if filters.group != "" {
		if sug := filter.Suggest(filters.group, filter.GroupNames(s.all)); len(sug) > 0 {
			out = append(out, fmt.Sprintf("No timelogs in group %q. Did you mean: %s?", filters.group, strings.Join(sug, ", ")))
		}
	}
	return out
}
