package gitlab

import (
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

// pageSize is the maximum number of timelogs GitLab returns per page.
const pageSize = 500

var queryTemplate = template.Must(template.New("timelogs").Funcs(template.FuncMap{
	"quote": graphQLString,
}).Parse(`{
  timelogs(
    username: {{ quote .Username }}
    last: {{ .PageSize }}
{{- if .Cursor }}
    before: {{ quote .Cursor }}
{{- end }}
    startTime: {{ quote .StartTime }}
    endTime: {{ quote .EndTime }}
  ) {
    nodes {
      spentAt
      timeSpent
      summary
      issue {
        title
        webUrl
        epic {
          title
        }
      }
      project {
        group {
          fullName
        }
      }
    }
    pageInfo {
      hasPreviousPage
      startCursor
    }
  }
}
`))

// PageQuery selects one page of timelogs.
type PageQuery struct {
	Username string
	// Cursor is the startCursor of the previously fetched page, empty for the
	// first request.
	Cursor string
	// Start and End are inclusive.
	Start timecalc.Date
	End   timecalc.Date
}

// buildQuery renders the GraphQL query text for q. GitLab only looks at the
// date and zone of startTime/endTime, so both are sent as local midnight.
func buildQuery(q PageQuery, loc *time.Location) (string, error) {
	var b strings.Builder
	err := queryTemplate.Execute(&b, struct {
		Username  string
		PageSize  int
		Cursor    string
		StartTime string
		EndTime   string
	}{
		Username:  q.Username,
		PageSize:  pageSize,
		Cursor:    q.Cursor,
		StartTime: q.Start.StartOfDay(loc).Format(time.RFC3339),
		EndTime:   q.End.StartOfDay(loc).Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// graphQLString quotes s as a GraphQL string literal. Every JSON string escape
// is also a valid GraphQL string escape.
func graphQLString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
