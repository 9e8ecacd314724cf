package gitlab

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

// PageFetcher fetches a single page of timelogs.
type PageFetcher interface {
	FetchPage(ctx context.Context, q PageQuery) (*Page, error)
}

// FetchAll follows the pagination cursor until the server reports no
// previous page and returns the records of all pages. Requests are strictly
// sequential; each request uses the cursor of the page fetched before it.
// The order of records across pages is unspecified.
func FetchAll(ctx context.Context, f PageFetcher, q PageQuery) ([]model.Timelog, error) {
	return fetchAll(ctx, f, q, slog.Default())
}

func fetchAll(ctx context.Context, f PageFetcher, q PageQuery, logger *slog.Logger) ([]model.Timelog, error) {
	q.Cursor = ""
	seen := map[string]struct{}{}

	var all []model.Timelog
	for n := 1; ; n++ {
		page, err := f.FetchPage(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", n, err)
		}
		all = append(all, page.Records...)

		logger.Debug("fetched timelog page",
			"page", n,
			"records", len(page.Records),
			"has_previous_page", page.HasPreviousPage)

		if !page.HasPreviousPage {
			return all, nil
		}
		if page.StartCursor == "" {
			return nil, &ProtocolError{Reason: fmt.Sprintf("page %d: hasPreviousPage is true but startCursor is missing", n)}
		}
		if _, dup := seen[page.StartCursor]; dup {
			return nil, &ProtocolError{Reason: fmt.Sprintf("page %d: cursor %q was already used", n, page.StartCursor)}
		}
		seen[page.StartCursor] = struct{}{}
		q.Cursor = page.StartCursor
	}
}

// FetchAll fetches every timelog of username between start and end
// (both inclusive). Progress is logged through the client's logger.
func (c *Client) FetchAll(ctx context.Context, username string, start, end timecalc.Date) ([]model.Timelog, error) {
	return fetchAll(ctx, c, PageQuery{Username: username, Start: start, End: end}, c.logger)
}
