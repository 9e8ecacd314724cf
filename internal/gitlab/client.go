package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const graphQLPath = "/api/graphql"

// maxErrorBody limits how much of a failed response body ends up in errors.
const maxErrorBody = 512

// Client is an authenticated GitLab GraphQL API client.
type Client struct {
	httpClient *http.Client
	endpoint   string
	loc        *time.Location
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLocation sets the time zone the date window is sent in.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for host (a bare hostname such as
// "gitlab.example.com") that authenticates with a bearer token.
// An *http.Client stored in ctx under oauth2.HTTPClient is used as transport.
func NewClient(ctx context.Context, host, token string, opts ...Option) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		endpoint:   "https://" + host + graphQLPath,
		loc:        time.Local,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the GraphQL URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// FetchPage performs exactly one request and returns one page of timelogs.
// GraphQL-level errors are returned as *GraphQLError.
func (c *Client) FetchPage(ctx context.Context, q PageQuery) (*Page, error) {
	query, err := buildQuery(q, c.loc)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("gitlab request", "endpoint", c.endpoint, "cursor", q.Cursor)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: excerpt(body)}
	}

	decoded, err := DecodeResponse(body)
	if err != nil {
		return nil, err
	}
	switch r := decoded.(type) {
	case *Page:
		return r, nil
	case *GraphQLError:
		return nil, r
	default:
		return nil, &DecodeError{Err: fmt.Errorf("unexpected response type %T", decoded)}
	}
}

func excerpt(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(bytes.TrimSpace(body))
	}
	return string(bytes.TrimSpace(body[:maxErrorBody])) + "..."
}
