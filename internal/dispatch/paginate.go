package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
	"github.com/bobmcallan/fivetran-mcp/internal/common"
)

// envelope is the subset of a Fivetran listing response the aggregator
// reads. Items live in data.items, or data itself is the array; the cursor
// is data.next_cursor or a top-level next_cursor.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	NextCursor json.RawMessage `json:"next_cursor"`
}

type pageData struct {
	Items      []json.RawMessage `json:"items"`
	NextCursor json.RawMessage   `json:"next_cursor"`
}

// aggregate is the merged result of a paginated listing.
type aggregate struct {
	Code string        `json:"code"`
	Data aggregateData `json:"data"`
}

type aggregateData struct {
	Items         []json.RawMessage `json:"items"`
	TotalItems    int               `json:"total_items"`
	Pages         int               `json:"pages"`
	AutoPaginated bool              `json:"auto_paginated"`
}

// parsePage extracts the items and the next cursor from one page. An
// empty cursor means the page was the last one.
func parsePage(body []byte) ([]json.RawMessage, string, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, "", err
	}

	var items []json.RawMessage
	cursor := cursorValue(env.NextCursor)

	data := bytes.TrimSpace(env.Data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
	case data[0] == '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, "", err
		}
	default:
		var pd pageData
		if err := json.Unmarshal(data, &pd); err != nil {
			return nil, "", err
		}
		items = pd.Items
		if c := cursorValue(pd.NextCursor); c != "" {
			cursor = c
		}
	}
	return items, cursor, nil
}

// cursorValue treats the cursor as opaque: a string is used as-is, any
// other non-null JSON value by its literal text.
func cursorValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// paginate fetches every page of a listing in order, following the cursor
// until it is absent, and merges the items. It fails with
// PaginationLimitExceeded once maxPages pages have been read and the
// upstream still returns a cursor.
func (d *Dispatcher) paginate(ctx context.Context, logger *common.Logger, op *catalog.Operation, req *Request, authorization string) (json.RawMessage, error) {
	if !req.Query.Has("limit") {
		req.Query.Set("limit", strconv.Itoa(d.pageSize))
	}

	items := []json.RawMessage{}
	pages := 0
	for {
		resp, err := d.client.do(ctx, logger, req, authorization)
		if err != nil {
			return nil, transportError(op, err)
		}
		if !resp.ok() {
			return nil, upstreamError(op, resp.status, resp.body)
		}
		pages++

		pageItems, cursor, err := parsePage(resp.body)
		if err != nil {
			e := newError(KindUpstreamError, op.Name, "unexpected listing response on page %d: %v", pages, err)
			e.Status = resp.status
			return nil, e
		}
		items = append(items, pageItems...)
		logger.Debug().Str("tool", op.Name).Int("page", pages).Int("items", len(pageItems)).Bool("more", cursor != "").Msg("listing page")

		if cursor == "" {
			break
		}
		if pages >= d.maxPages {
			e := newError(KindPaginationLimitExceeded, op.Name,
				"stopped after %d pages; the upstream still returned a next cursor", pages)
			e.Hint = "narrow the listing with filters, or page manually with the cursor argument"
			e.Details = map[string]any{
				"pages":       pages,
				"items":       len(items),
				"next_cursor": cursor,
			}
			return nil, e
		}

		req = req.Clone()
		req.Query.Set("cursor", cursor)
	}

	return json.Marshal(aggregate{
		Code: "Success",
		Data: aggregateData{
			Items:         items,
			TotalItems:    len(items),
			Pages:         pages,
			AutoPaginated: true,
		},
	})
}
