package dispatch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
)

// Kind classifies a dispatch failure.
type Kind string

const (
	KindUnknownOperation         Kind = "UnknownOperation"
	KindWriteNotPermitted        Kind = "WriteNotPermitted"
	KindMissingCredentials       Kind = "MissingCredentials"
	KindMissingRequiredParameter Kind = "MissingRequiredParameter"
	KindUnknownParameter         Kind = "UnknownParameter"
	KindInvalidParameterValue    Kind = "InvalidParameterValue"
	KindUpstreamError            Kind = "UpstreamError"
	KindPaginationLimitExceeded  Kind = "PaginationLimitExceeded"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrUnknownOperation         = &Error{Kind: KindUnknownOperation}
	ErrWriteNotPermitted        = &Error{Kind: KindWriteNotPermitted}
	ErrMissingCredentials       = &Error{Kind: KindMissingCredentials}
	ErrMissingRequiredParameter = &Error{Kind: KindMissingRequiredParameter}
	ErrUnknownParameter         = &Error{Kind: KindUnknownParameter}
	ErrInvalidParameterValue    = &Error{Kind: KindInvalidParameterValue}
	ErrUpstream                 = &Error{Kind: KindUpstreamError}
	ErrPaginationLimitExceeded  = &Error{Kind: KindPaginationLimitExceeded}
)

// Error is the single failure type returned by Invoke.
type Error struct {
	Kind      Kind           `json:"kind"`
	Message   string         `json:"message"`
	Hint      string         `json:"hint,omitempty"`
	Operation string         `json:"operation,omitempty"`
	Parameter string         `json:"parameter,omitempty"`
	Status    int            `json:"status,omitempty"`
	Body      any            `json:"body,omitempty"`
	Details   map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Operation != "" {
		b.WriteString(" (" + e.Operation + ")")
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Operation: op, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withHint(hint string) *Error {
	e.Hint = hint
	return e
}

func (e *Error) withParameter(name string) *Error {
	e.Parameter = name
	return e
}

// upstreamError maps a non-2xx response to an UpstreamError with a
// status-specific hint.
func upstreamError(op *catalog.Operation, status int, body []byte) *Error {
	e := &Error{
		Kind:      KindUpstreamError,
		Operation: op.Name,
		Status:    status,
		Message:   fmt.Sprintf("Fivetran API returned %d %s", status, http.StatusText(status)),
		Hint:      upstreamHint(op, status),
	}

	var decoded any
	if json.Unmarshal(body, &decoded) == nil {
		e.Body = decoded
		if m, ok := decoded.(map[string]any); ok {
			if msg, ok := m["message"].(string); ok && msg != "" {
				e.Message += ": " + msg
			}
		}
	} else if len(body) > 0 {
		e.Body = string(body)
	}
	return e
}

// transportError wraps a failure to reach the upstream at all.
func transportError(op *catalog.Operation, err error) *Error {
	return &Error{
		Kind:      KindUpstreamError,
		Operation: op.Name,
		Message:   "Fivetran API request failed: " + err.Error(),
		Hint:      "the Fivetran API is unreachable; check network access and base_url, then retry",
		cause:     err,
	}
}

func upstreamHint(op *catalog.Operation, status int) string {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return "the request was rejected; check the arguments against the tool's input schema"
	case status == http.StatusUnauthorized:
		return "check FIVETRAN_API_KEY and FIVETRAN_API_SECRET"
	case status == http.StatusForbidden:
		return "the API key lacks permission for this operation; check its role and scopes"
	case status == http.StatusNotFound:
		if lister := listingFor(op); lister != "" {
			return "resource not found; use " + lister + " to discover valid identifiers"
		}
		return "resource not found"
	case status == http.StatusConflict:
		return "the resource is in a conflicting state; fetch its current details and retry"
	case status == http.StatusTooManyRequests:
		return "rate limited by Fivetran; retry later"
	case status >= 500:
		return "Fivetran is unavailable; retry later"
	}
	return ""
}

// listingFor returns the operation that lists valid values for the most
// specific identifier in op's path.
func listingFor(op *catalog.Operation) string {
	path := op.ParamsIn(catalog.InPath)
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].ListedBy != "" && path[i].ListedBy != op.Name {
			return path[i].ListedBy
		}
	}
	return ""
}
