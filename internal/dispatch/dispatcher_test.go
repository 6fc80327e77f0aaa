package dispatch

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/bobmcallan/fivetran-mcp/internal/auth"
	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
	"github.com/bobmcallan/fivetran-mcp/internal/common"
	"github.com/bobmcallan/fivetran-mcp/internal/config"
)

// --- Helpers ---

// recorded is one request seen by the mock upstream.
type recorded struct {
	Method string
	URI    string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// upstream is an httptest server that counts and records every request.
type upstream struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recorded
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, recorded{
			Method: r.Method,
			URI:    r.RequestURI,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		u.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *upstream) request(i int) recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[i]
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

var testCredentials = auth.Credentials{Key: "test-key", Secret: "test-secret"}

func newTestDispatcher(t *testing.T, baseURL string, allowWrites bool, opts ...func(*Options)) *Dispatcher {
	t.Helper()
	return newTestDispatcherWithPolicy(t, baseURL, config.NewPolicy(allowWrites, testCredentials), opts...)
}

func newTestDispatcherWithPolicy(t *testing.T, baseURL string, policy *config.Policy, opts ...func(*Options)) *Dispatcher {
	t.Helper()
	o := Options{BaseURL: baseURL, UserAgent: "fivetran-mcp-test"}
	for _, fn := range opts {
		fn(&o)
	}
	return New(catalog.Default(), policy, o, common.NewSilentLogger())
}

func withMaxPages(n int) func(*Options) {
	return func(o *Options) { o.MaxPages = n }
}

func requireKind(t *testing.T, err error, want *Error) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want.Kind)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %s, got %v", want.Kind, err)
	}
	return AsError(err)
}

func decode(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("payload is not a JSON object: %v\n%s", err, raw)
	}
	return m
}

// --- Write guard ---

func TestInvoke_WriteDisabled_NoRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{"code":"Success"}`))
	d := newTestDispatcher(t, u.URL, false)

	for _, tool := range []struct {
		name string
		args map[string]any
	}{
		{"create_group", map[string]any{"name": "analytics"}},
		{"modify_connection", map[string]any{"connection_id": "conn_1", "paused": true}},
		{"delete_connection", map[string]any{"connection_id": "conn_1"}},
		{"sync_connection", map[string]any{"connection_id": "conn_1"}},
	} {
		_, err := d.Invoke(t.Context(), tool.name, tool.args)
		e := requireKind(t, err, ErrWriteNotPermitted)
		if e.Operation != tool.name {
			t.Errorf("expected operation %s, got %s", tool.name, e.Operation)
		}
		if !strings.Contains(e.Hint, "enable write operations to use this tool") {
			t.Errorf("unexpected hint: %s", e.Hint)
		}
	}
	if u.calls() != 0 {
		t.Errorf("expected zero upstream calls, got %d", u.calls())
	}
}

func TestInvoke_WriteDisabled_CheckedBeforeArguments(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, false)

	_, err := d.Invoke(t.Context(), "delete_connection", map[string]any{"bogus": 1})
	requireKind(t, err, ErrWriteNotPermitted)
}

func TestInvoke_WriteEnabled_SingleRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(201, `{"code":"Success","data":{"id":"group_1","name":"analytics"}}`))
	d := newTestDispatcher(t, u.URL, true)

	payload, err := d.Invoke(t.Context(), "create_group", map[string]any{"name": "analytics"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if u.calls() != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", u.calls())
	}

	req := u.request(0)
	if req.Method != http.MethodPost || req.Path != "/v1/groups" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Body != `{"name":"analytics"}` {
		t.Errorf("unexpected body %s", req.Body)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("missing Content-Type, got %q", req.Header.Get("Content-Type"))
	}

	data := decode(t, payload)["data"].(map[string]any)
	if data["id"] != "group_1" {
		t.Errorf("payload not passed through: %v", data)
	}
}

func TestInvoke_DeleteWithEmptyResponse(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	d := newTestDispatcher(t, u.URL, true)

	payload, err := d.Invoke(t.Context(), "delete_webhook", map[string]any{"webhook_id": "wh_1"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if string(payload) != `{"code":"Success"}` {
		t.Errorf("unexpected payload %s", payload)
	}
	req := u.request(0)
	if req.Method != http.MethodDelete || req.Body != "" {
		t.Errorf("unexpected request %s body=%q", req.Method, req.Body)
	}
	if req.Header.Get("Content-Type") != "" {
		t.Error("Content-Type should not be sent without a body")
	}
}

func TestInvoke_PostWithoutBodyParams_OmitsBody(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{"code":"Success"}`))
	d := newTestDispatcher(t, u.URL, true)

	if _, err := d.Invoke(t.Context(), "sync_connection", map[string]any{"connection_id": "conn_1"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if body := u.request(0).Body; body != "" {
		t.Errorf("expected no body, got %q", body)
	}
}

// --- Local validation ---

func TestInvoke_MissingRequiredParameter_NoRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, true)

	_, err := d.Invoke(t.Context(), "get_connection_details", nil)
	e := requireKind(t, err, ErrMissingRequiredParameter)
	if e.Parameter != "connection_id" {
		t.Errorf("expected connection_id, got %s", e.Parameter)
	}
	if !strings.Contains(e.Hint, "list_connections") {
		t.Errorf("hint should point at list_connections: %s", e.Hint)
	}

	_, err = d.Invoke(t.Context(), "create_user", map[string]any{"email": "a@example.com"})
	requireKind(t, err, ErrMissingRequiredParameter)

	if u.calls() != 0 {
		t.Errorf("expected zero upstream calls, got %d", u.calls())
	}
}

func TestInvoke_UnknownParameter_NoRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, true)

	_, err := d.Invoke(t.Context(), "create_group", map[string]any{"name": "g", "owner": "me"})
	e := requireKind(t, err, ErrUnknownParameter)
	if e.Parameter != "owner" {
		t.Errorf("expected owner, got %s", e.Parameter)
	}
	if u.calls() != 0 {
		t.Errorf("expected zero upstream calls, got %d", u.calls())
	}
}

func TestInvoke_InvalidEnum_NoRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, true)

	_, err := d.Invoke(t.Context(), "modify_connection_table_config", map[string]any{
		"connection_id": "conn_1",
		"schema_name":   "public",
		"table_name":    "orders",
		"sync_mode":     "MIRROR",
	})
	e := requireKind(t, err, ErrInvalidParameterValue)
	if !strings.Contains(e.Hint, "SOFT_DELETE") {
		t.Errorf("hint should list allowed values: %s", e.Hint)
	}
	if u.calls() != 0 {
		t.Errorf("expected zero upstream calls, got %d", u.calls())
	}
}

func TestInvoke_UnknownOperation(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, true)

	_, err := d.Invoke(t.Context(), "list_connection", nil)
	e := requireKind(t, err, ErrUnknownOperation)
	if e.Details["catalog_size"] != catalog.Default().Len() {
		t.Errorf("expected catalog size in details, got %v", e.Details)
	}
	if !strings.Contains(e.Hint, "list_connections") {
		t.Errorf("expected a suggestion, got %s", e.Hint)
	}
	if u.calls() != 0 {
		t.Errorf("expected zero upstream calls, got %d", u.calls())
	}
}

// --- Credentials ---

func TestInvoke_MissingCredentials(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcherWithPolicy(t, u.URL, config.NewPolicy(false, auth.Credentials{Key: "only-key"}))

	_, err := d.Invoke(t.Context(), "get_account_info", nil)
	e := requireKind(t, err, ErrMissingCredentials)
	if !errors.Is(err, auth.ErrMissingCredentials) {
		t.Error("MissingCredentials should wrap auth.ErrMissingCredentials")
	}
	if !strings.Contains(e.Hint, "FIVETRAN_API_KEY") {
		t.Errorf("unexpected hint %s", e.Hint)
	}

	// The write guard still runs first.
	_, err = d.Invoke(t.Context(), "create_group", map[string]any{"name": "g"})
	requireKind(t, err, ErrWriteNotPermitted)

	if u.calls() != 0 {
		t.Errorf("expected zero upstream calls, got %d", u.calls())
	}
}

func TestInvoke_SendsHeaders(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{"code":"Success","data":{"id":"acc"}}`))
	d := newTestDispatcher(t, u.URL, false)

	if _, err := d.Invoke(t.Context(), "get_account_info", nil); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	h := u.request(0).Header
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:test-secret"))
	if h.Get("Authorization") != want {
		t.Errorf("Authorization = %q, want %q", h.Get("Authorization"), want)
	}
	if h.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", h.Get("Accept"))
	}
	if h.Get("User-Agent") != "fivetran-mcp-test" {
		t.Errorf("User-Agent = %q", h.Get("User-Agent"))
	}
}

// --- Upstream errors ---

func TestInvoke_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		tool     string
		args     map[string]any
		wantHint string
		wantMsg  string
	}{
		{
			name:     "not found points at listing",
			status:   404,
			body:     `{"code":"NotFound_Connection","message":"Connection with id 'conn_x' doesn't exist"}`,
			tool:     "get_connection_details",
			args:     map[string]any{"connection_id": "conn_x"},
			wantHint: "list_connections",
			wantMsg:  "doesn't exist",
		},
		{
			name:     "not found uses most specific identifier",
			status:   404,
			body:     `{"code":"NotFound"}`,
			tool:     "get_connection_column_config",
			args:     map[string]any{"connection_id": "c", "schema_name": "s", "table_name": "t"},
			wantHint: "get_connection_schema_config",
		},
		{
			name:     "unauthorized",
			status:   401,
			body:     `{"code":"AuthFailed","message":"Invalid credentials"}`,
			tool:     "get_account_info",
			wantHint: "FIVETRAN_API_KEY",
		},
		{
			name:     "forbidden",
			status:   403,
			body:     `{"code":"Forbidden"}`,
			tool:     "list_users",
			wantHint: "permission",
		},
		{
			name:     "rate limited",
			status:   429,
			body:     `{"code":"TooManyRequests"}`,
			tool:     "get_account_info",
			wantHint: "retry later",
		},
		{
			name:     "server error with text body",
			status:   502,
			body:     `bad gateway`,
			tool:     "get_account_info",
			wantHint: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t, jsonHandler(tt.status, tt.body))
			d := newTestDispatcher(t, u.URL, false)

			_, err := d.Invoke(t.Context(), tt.tool, tt.args)
			e := requireKind(t, err, ErrUpstream)
			if e.Status != tt.status {
				t.Errorf("status = %d, want %d", e.Status, tt.status)
			}
			if !strings.Contains(e.Hint, tt.wantHint) {
				t.Errorf("hint %q should contain %q", e.Hint, tt.wantHint)
			}
			if tt.wantMsg != "" && !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message %q should contain %q", e.Message, tt.wantMsg)
			}
			if e.Body == nil {
				t.Error("upstream body should be carried")
			}
			if u.calls() != 1 {
				t.Errorf("errors must not be retried, got %d calls", u.calls())
			}
		})
	}
}

func TestInvoke_UpstreamUnreachable(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	baseURL := u.URL
	u.Close()

	d := newTestDispatcher(t, baseURL, false)
	_, err := d.Invoke(t.Context(), "get_account_info", nil)
	e := requireKind(t, err, ErrUpstream)
	if e.Status != 0 {
		t.Errorf("transport failure should have no status, got %d", e.Status)
	}
	if !strings.Contains(e.Hint, "unreachable") {
		t.Errorf("unexpected hint %s", e.Hint)
	}
}

// --- Path handling ---

func TestInvoke_PathValuesAreEscaped(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, false)

	_, err := d.Invoke(t.Context(), "get_connection_details", map[string]any{"connection_id": "a/b{schema_name}"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	uri := u.request(0).URI
	if !strings.HasPrefix(uri, "/v1/connections/a%2Fb%7Bschema_name%7D") {
		t.Errorf("path value not escaped literally: %s", uri)
	}
}

func TestInvoke_DotSegmentPathValues_NoRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, true)

	tests := []struct {
		tool string
		args map[string]any
	}{
		{"delete_connection", map[string]any{"connection_id": ".."}},
		{"get_connection_details", map[string]any{"connection_id": "."}},
		{"delete_destination", map[string]any{"destination_id": ".."}},
		{"remove_user_from_group", map[string]any{"group_id": "g", "user_id": ".."}},
	}
	for _, tt := range tests {
		_, err := d.Invoke(t.Context(), tt.tool, tt.args)
		requireKind(t, err, ErrInvalidParameterValue)
	}
	if u.calls() != 0 {
		t.Errorf("expected no upstream calls, got %d", u.calls())
	}
}

func TestInvoke_OutOfRangeInteger_NoRequest(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{}`))
	d := newTestDispatcher(t, u.URL, true)

	_, err := d.Invoke(t.Context(), "modify_connection", map[string]any{"connection_id": "c", "sync_frequency": 1e20})
	requireKind(t, err, ErrInvalidParameterValue)
	if u.calls() != 0 {
		t.Errorf("expected no upstream calls, got %d", u.calls())
	}
}

// --- Pagination ---

func pagedHandler(t *testing.T, pages int, perPage int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page := 0
		switch r.URL.Query().Get("cursor") {
		case "":
			page = 0
		case "c1":
			page = 1
		case "c2":
			page = 2
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
		items := make([]string, perPage)
		for i := range items {
			items[i] = fmt.Sprintf(`{"id":"conn_%d_%d"}`, page, i)
		}
		next := "null"
		if page+1 < pages {
			next = fmt.Sprintf(`"c%d"`, page+1)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"code":"Success","data":{"items":[%s],"next_cursor":%s}}`, strings.Join(items, ","), next)
	}
}

func TestInvoke_Pagination_MergesPagesInOrder(t *testing.T) {
	u := newUpstream(t, pagedHandler(t, 3, 10))
	d := newTestDispatcher(t, u.URL, false)

	payload, err := d.Invoke(t.Context(), "list_connections", nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if u.calls() != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", u.calls())
	}

	var result struct {
		Code string `json:"code"`
		Data struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
			TotalItems    int  `json:"total_items"`
			Pages         int  `json:"pages"`
			AutoPaginated bool `json:"auto_paginated"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result.Data.Items) != 30 || result.Data.TotalItems != 30 || result.Data.Pages != 3 {
		t.Fatalf("expected 30 items over 3 pages, got %d items (%d) over %d pages",
			len(result.Data.Items), result.Data.TotalItems, result.Data.Pages)
	}
	for i, item := range result.Data.Items {
		want := fmt.Sprintf("conn_%d_%d", i/10, i%10)
		if item.ID != want {
			t.Fatalf("item %d = %s, want %s", i, item.ID, want)
		}
	}
	if !result.Data.AutoPaginated || result.Code != "Success" {
		t.Errorf("unexpected envelope: %+v", result)
	}

	if got := u.request(0).Query["cursor"]; got != nil {
		t.Errorf("first page must not send a cursor, got %v", got)
	}
	if got := u.request(1).Query.Get("cursor"); got != "c1" {
		t.Errorf("second page cursor = %q", got)
	}
	if got := u.request(2).Query.Get("cursor"); got != "c2" {
		t.Errorf("third page cursor = %q", got)
	}
	for i := 0; i < 3; i++ {
		if got := u.request(i).Query.Get("limit"); got != "1000" {
			t.Errorf("page %d limit = %q, want 1000", i, got)
		}
	}
}

func TestInvoke_Pagination_Ceiling(t *testing.T) {
	n := 0
	var mu sync.Mutex
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		n++
		cursor := fmt.Sprintf("c%d", n)
		mu.Unlock()
		fmt.Fprintf(w, `{"code":"Success","data":{"items":[{"id":"x"}],"next_cursor":%q}}`, cursor)
	})
	d := newTestDispatcher(t, u.URL, false, withMaxPages(5))

	_, err := d.Invoke(t.Context(), "list_groups", nil)
	e := requireKind(t, err, ErrPaginationLimitExceeded)
	if u.calls() != 5 {
		t.Errorf("expected aggregation to stop at 5 calls, got %d", u.calls())
	}
	if e.Details["pages"] != 5 {
		t.Errorf("expected page count in details, got %v", e.Details)
	}
}

func TestInvoke_Pagination_CyclicCursorHitsCeiling(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{"data":{"items":[],"next_cursor":"same"}}`))
	d := newTestDispatcher(t, u.URL, false, withMaxPages(3))

	_, err := d.Invoke(t.Context(), "list_teams", nil)
	requireKind(t, err, ErrPaginationLimitExceeded)
	if u.calls() != 3 {
		t.Errorf("expected 3 calls, got %d", u.calls())
	}
}

func TestInvoke_ListConnections_EndToEnd(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{"data":[{"id":"conn_1"}], "next_cursor": null}`))
	d := newTestDispatcher(t, u.URL, false)

	payload, err := d.Invoke(t.Context(), "list_connections", map[string]any{})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if u.calls() != 1 {
		t.Fatalf("expected one upstream call, got %d", u.calls())
	}
	req := u.request(0)
	if req.Method != http.MethodGet || req.Path != "/v1/connections" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if !strings.HasPrefix(req.Header.Get("Authorization"), "Basic ") {
		t.Errorf("missing auth header: %q", req.Header.Get("Authorization"))
	}

	items := decode(t, payload)["data"].(map[string]any)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one connection, got %d", len(items))
	}
	if id := items[0].(map[string]any)["id"]; id != "conn_1" {
		t.Errorf("expected conn_1, got %v", id)
	}
}

func TestInvoke_Pagination_ManualCursor(t *testing.T) {
	page := `{"code":"Success","data":{"items":[{"id":"g2"}],"next_cursor":"c3"}}`
	u := newUpstream(t, jsonHandler(200, page))
	d := newTestDispatcher(t, u.URL, false)

	payload, err := d.Invoke(t.Context(), "list_groups", map[string]any{"cursor": "c2", "limit": 1})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if u.calls() != 1 {
		t.Fatalf("manual paging should fetch one page, got %d calls", u.calls())
	}
	if string(payload) != page {
		t.Errorf("envelope should be returned unchanged, got %s", payload)
	}
	q := u.request(0).Query
	if q.Get("cursor") != "c2" || q.Get("limit") != "1" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestInvoke_Pagination_QueryFilters(t *testing.T) {
	u := newUpstream(t, jsonHandler(200, `{"data":{"items":[]}}`))
	d := newTestDispatcher(t, u.URL, false)

	if _, err := d.Invoke(t.Context(), "list_connections", map[string]any{"group_id": "group_1"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	q := u.request(0).Query
	if q.Get("group_id") != "group_1" {
		t.Errorf("group_id filter not sent: %v", q)
	}
	if _, ok := q["schema"]; ok {
		t.Errorf("omitted optional parameter present in query: %v", q)
	}
}

func TestInvoke_Pagination_UpstreamErrorMidway(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		c := calls
		mu.Unlock()
		if c == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"code":"InternalError"}`)
			return
		}
		io.WriteString(w, `{"data":{"items":[{"id":"a"}],"next_cursor":"next"}}`)
	})
	d := newTestDispatcher(t, u.URL, false)

	_, err := d.Invoke(t.Context(), "list_users", nil)
	e := requireKind(t, err, ErrUpstream)
	if e.Status != 500 {
		t.Errorf("status = %d", e.Status)
	}
	if u.calls() != 2 {
		t.Errorf("expected 2 calls, got %d", u.calls())
	}
}

// --- Concurrency ---

func TestInvoke_Concurrent(t *testing.T) {
	u := newUpstream(t, pagedHandler(t, 2, 5))
	d := newTestDispatcher(t, u.URL, false)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, err := d.Invoke(t.Context(), "list_connections", nil)
			if err != nil {
				errs <- err
				return
			}
			var result aggregate
			if err := json.Unmarshal(payload, &result); err != nil {
				errs <- err
				return
			}
			if result.Data.TotalItems != 10 {
				errs <- fmt.Errorf("expected 10 items, got %d", result.Data.TotalItems)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if u.calls() != workers*2 {
		t.Errorf("expected %d calls, got %d", workers*2, u.calls())
	}
}
