package filter

import (
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
)

const maxSuggestions = 3

// EpicTitles returns the distinct epic titles of records, sorted.
func EpicTitles(records []model.Timelog) []string {
	return distinct(records, (*model.Timelog).EpicTitle)
}

// GroupNames returns the distinct group names of records, sorted.
func GroupNames(records []model.Timelog) []string {
	return distinct(records, (*model.Timelog).GroupName)
}

// Suggest returns up to three candidates that fuzzily match name, best first.
func Suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func distinct(records []model.Timelog, get func(*model.Timelog) (string, bool)) []string {
	seen := map[string]bool{}
	var out []string
	for i := range records {
		v, ok := get(&records[i])
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
