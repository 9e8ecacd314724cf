package gitlab_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/gitlab-timelogs/internal/gitlab"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

const nodeJSON = `{"spentAt":%q,"timeSpent":%d,"summary":"done",
	"issue":{"title":%q,"webUrl":"https://gitlab.example.com/g/p/-/issues/1","epic":null},
	"project":{"group":{"fullName":"g"}}}`

// newTestClient starts a TLS server and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*gitlab.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, srv.Client())
	host := strings.TrimPrefix(srv.URL, "https://")
	return gitlab.NewClient(ctx, host, "glpat-secret", gitlab.WithLocation(time.UTC)), srv
}

func readQuery(t *testing.T, r *http.Request) string {
	t.Helper()
	var body struct {
		Query string `json:"query"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body.Query
}

func TestFetchPageRequestShape(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/graphql", r.URL.Path)
		assert.Equal(t, "Bearer glpat-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		query := readQuery(t, r)
		assert.Contains(t, query, `username: "jdoe"`)
		assert.Contains(t, query, `startTime: "2024-06-01T00:00:00Z"`)
		assert.Contains(t, query, `endTime: "2024-06-07T00:00:00Z"`)

		fmt.Fprintf(w, `{"data":{"timelogs":{"nodes":[`+nodeJSON+`],"pageInfo":{"hasPreviousPage":false,"startCursor":"abc"}}}}`,
			"2024-06-03T08:00:00Z", 3600, "Issue A")
	})

	assert.Equal(t, srv.URL+"/api/graphql", client.Endpoint())

	page, err := client.FetchPage(context.Background(), gitlab.PageQuery{
		Username: "jdoe",
		Start:    timecalc.Date{Year: 2024, Month: time.June, Day: 1},
		End:      timecalc.Date{Year: 2024, Month: time.June, Day: 7},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Issue A", page.Records[0].Issue.Title)
	assert.Equal(t, int64(3600), page.Records[0].TimeSpent)
	assert.False(t, page.HasPreviousPage)
}

func TestClientFetchAllFollowsCursor(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		query := readQuery(t, r)
		switch {
		case strings.Contains(query, `before: "c2"`):
			fmt.Fprintf(w, `{"data":{"timelogs":{"nodes":[`+nodeJSON+`],"pageInfo":{"hasPreviousPage":false,"startCursor":"c3"}}}}`,
				"2024-06-01T08:00:00Z", 600, "oldest")
		case strings.Contains(query, `before: "c1"`):
			fmt.Fprintf(w, `{"data":{"timelogs":{"nodes":[`+nodeJSON+`],"pageInfo":{"hasPreviousPage":true,"startCursor":"c2"}}}}`,
				"2024-06-02T08:00:00Z", 1200, "middle")
		default:
			fmt.Fprintf(w, `{"data":{"timelogs":{"nodes":[`+nodeJSON+`,`+nodeJSON+`],"pageInfo":{"hasPreviousPage":true,"startCursor":"c1"}}}}`,
				"2024-06-03T08:00:00Z", 1800, "newest", "2024-06-03T09:00:00Z", 60, "newest-2")
		}
	})

	records, err := client.FetchAll(context.Background(), "jdoe",
		timecalc.Date{Year: 2024, Month: time.June, Day: 1},
		timecalc.Date{Year: 2024, Month: time.June, Day: 3})
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())

	var titles []string
	for _, r := range records {
		titles = append(titles, r.Issue.Title)
	}
	assert.ElementsMatch(t, []string{"newest", "newest-2", "middle", "oldest"}, titles)
}

func TestFetchPageGraphQLError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"Invalid token","locations":[{"line":2,"column":3}]}]}`)
	})

	_, err := client.FetchPage(context.Background(), gitlab.PageQuery{Username: "jdoe"})
	var gqlErr *gitlab.GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "Invalid token", gqlErr.Errors[0].Message)
	assert.Equal(t, 2, gqlErr.Errors[0].Locations[0].Line)
}

func TestFetchPageStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"401 Unauthorized"}`, http.StatusUnauthorized)
	})

	_, err := client.FetchPage(context.Background(), gitlab.PageQuery{Username: "jdoe"})
	var serr *gitlab.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	assert.Contains(t, serr.Body, "401 Unauthorized")
}

func TestFetchPageDecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})

	_, err := client.FetchPage(context.Background(), gitlab.PageQuery{Username: "jdoe"})
	var derr *gitlab.DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestFetchPageTransportError(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, srv.Client())
	client := gitlab.NewClient(ctx, strings.TrimPrefix(srv.URL, "https://"), "t")
	srv.Close()

	_, err := client.FetchPage(context.Background(), gitlab.PageQuery{Username: "jdoe"})
	var terr *gitlab.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, client.Endpoint(), terr.Endpoint)
}

func TestClientFetchAllLogsThroughClientLogger(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":{"timelogs":{"nodes":[`+nodeJSON+`],"pageInfo":{"hasPreviousPage":false,"startCursor":null}}}}`,
			"2024-06-03T08:00:00Z", 600, "only")
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})).With("component", "gitlab")
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, srv.Client())
	client := gitlab.NewClient(ctx, strings.TrimPrefix(srv.URL, "https://"), "t",
		gitlab.WithLocation(time.UTC), gitlab.WithLogger(logger))

	_, err := client.FetchAll(context.Background(), "jdoe",
		timecalc.Date{Year: 2024, Month: time.June, Day: 1},
		timecalc.Date{Year: 2024, Month: time.June, Day: 3})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "gitlab request")
	assert.Contains(t, out, "fetched timelog page")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Contains(t, line, "component=gitlab")
	}
}
