package gitlab

import (
	"fmt"
	"strings"
)

// TransportError is a failure to talk to the server at all: DNS, TLS,
// connection resets or timeouts.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gitlab request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned for any non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gitlab API error %d: %s", e.StatusCode, e.Body)
}

// ProtocolError means the server answered with a well-formed body that
// violates the response contract, e.g. a missing pagination cursor.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "gitlab protocol violation: " + e.Reason
}

// DecodeError means the body matched neither the success nor the error schema.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding gitlab response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Location points into the submitted GraphQL query text.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ErrorEntry is a single entry of a GraphQL "errors" list.
type ErrorEntry struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations"`
}

func (e ErrorEntry) String() string {
	if len(e.Locations) == 0 {
		return e.Message
	}
	locs := make([]string, 0, len(e.Locations))
	for _, l := range e.Locations {
		locs = append(locs, fmt.Sprintf("%d:%d", l.Line, l.Column))
	}
	return fmt.Sprintf("%s (at %s)", e.Message, strings.Join(locs, ", "))
}

// GraphQLError carries the structured error list returned by the API, for
// example for bad credentials or an unknown user.
type GraphQLError struct {
	Errors []ErrorEntry
}

func (e *GraphQLError) Error() string {
	return "gitlab GraphQL error: " + joinEntries(e.Errors)
}

func joinEntries(entries []ErrorEntry) string {
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		msgs = append(msgs, entry.String())
	}
	return strings.Join(msgs, "; ")
}
