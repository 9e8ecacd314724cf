package gitlab

import (
	"encoding/json"

	"github.com/Tiliavir/gitlab-timelogs/internal/model"
)

// Response is a decoded GraphQL response: either a *Page or a *GraphQLError.
type Response interface {
	isResponse()
}

// Page is one page of timelogs.
type Page struct {
	Records         []model.Timelog
	HasPreviousPage bool
	// StartCursor is empty when the server sent none.
	StartCursor string
}

func (*Page) isResponse()         {}
func (*GraphQLError) isResponse() {}

type wireResponse struct {
	Data   *wireData    `json:"data"`
	Errors []ErrorEntry `json:"errors"`
}

type wireData struct {
	Timelogs *wireTimelogs `json:"timelogs"`
}

type wireTimelogs struct {
	Nodes    []model.Timelog `json:"nodes"`
	PageInfo wirePageInfo    `json:"pageInfo"`
}

type wirePageInfo struct {
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
}

// DecodeResponse decodes a response body. Exactly one of "data" and "errors"
// must be present; an empty "errors" list counts as absent.
func DecodeResponse(body []byte) (Response, error) {
	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, &DecodeError{Err: err}
	}

	hasData := wr.Data != nil
	hasErrors := len(wr.Errors) > 0
	switch {
	case hasData && hasErrors:
		return nil, &ProtocolError{Reason: "response contains both data and errors: " + joinEntries(wr.Errors)}
	case !hasData && !hasErrors:
		return nil, &ProtocolError{Reason: "response contains neither data nor errors"}
	case hasErrors:
		return &GraphQLError{Errors: wr.Errors}, nil
	}

	tl := wr.Data.Timelogs
	if tl == nil {
		return nil, &ProtocolError{Reason: "response data has no timelogs"}
	}

	page := &Page{
		Records:         tl.Nodes,
		HasPreviousPage: tl.PageInfo.HasPreviousPage,
	}
	if tl.PageInfo.StartCursor != nil {
		page.StartCursor = *tl.PageInfo.StartCursor
	}
	if page.HasPreviousPage && page.StartCursor == "" {
		return nil, &ProtocolError{Reason: "hasPreviousPage is true but startCursor is missing"}
	}
	return page, nil
}
