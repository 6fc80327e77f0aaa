package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
)

// Request is one resolved upstream call: the path with placeholders
// substituted, the query string and the JSON body. Body is nil when no body
// parameter was supplied.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// Clone returns a copy whose Query can be modified independently.
func (r *Request) Clone() *Request {
	c := *r
	c.Query = make(url.Values, len(r.Query))
	for k, v := range r.Query {
		c.Query[k] = slices.Clone(v)
	}
	return &c
}

// URL joins the request path and query onto base.
func (r *Request) URL(base string) string {
	u := strings.TrimRight(base, "/") + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Resolve validates args against op and builds the upstream request. It
// never performs I/O. Argument values are substituted literally; a value
// containing braces or slashes is escaped, never expanded.
func Resolve(op *catalog.Operation, args map[string]any) (*Request, error) {
	if err := rejectUnknown(op, args); err != nil {
		return nil, err
	}

	req := &Request{
		Method: op.Method,
		Path:   op.Path,
		Query:  url.Values{},
	}
	body := map[string]any{}

	for _, p := range op.Params {
		raw, supplied := args[p.Name]
		if raw == nil {
			supplied = false
		}
		if !supplied {
			if p.Required {
				return nil, missing(op, p)
			}
			continue
		}

		value, err := coerce(p, raw)
		if err != nil {
			return nil, newError(KindInvalidParameterValue, op.Name, "%s: %v", p.Name, err).
				withParameter(p.Name).
				withHint(paramHint(p))
		}

		switch p.In {
		case catalog.InPath:
			s := scalarString(value)
			if s == "" {
				return nil, missing(op, p)
			}
			if s == "." || s == ".." {
				return nil, newError(KindInvalidParameterValue, op.Name, "%s: %q is not a valid identifier", p.Name, s).
					withParameter(p.Name).
					withHint(paramHint(p))
			}
			req.Path = strings.Replace(req.Path, "{"+p.Name+"}", url.PathEscape(s), 1)
		case catalog.InQuery:
			if s := queryString(value); s != "" {
				req.Query.Set(p.Name, s)
			}
		case catalog.InBody:
			if obj, ok := value.(map[string]any); ok && p.Inline {
				for k, v := range obj {
					body[k] = v
				}
				continue
			}
			body[p.Name] = value
		}
	}

	if len(body) > 0 {
		req.Body = body
	}
	return req, nil
}

func rejectUnknown(op *catalog.Operation, args map[string]any) error {
	var unknown []string
	for name := range args {
		if _, ok := op.Param(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)

	declared := make([]string, len(op.Params))
	for i, p := range op.Params {
		declared[i] = p.Name
	}
	hint := "this tool takes no arguments"
	if len(declared) > 0 {
		hint = "accepted arguments: " + strings.Join(declared, ", ")
	}
	return newError(KindUnknownParameter, op.Name, "unknown argument(s): %s", strings.Join(unknown, ", ")).
		withParameter(unknown[0]).
		withHint(hint)
}

func missing(op *catalog.Operation, p catalog.Param) *Error {
	e := newError(KindMissingRequiredParameter, op.Name, "%s is required", p.Name).withParameter(p.Name)
	return e.withHint(paramHint(p))
}

func paramHint(p catalog.Param) string {
	var parts []string
	if p.Type == catalog.Enum {
		parts = append(parts, "one of: "+strings.Join(p.Enum, ", "))
	}
	if p.Bounded {
		parts = append(parts, fmt.Sprintf("range: %d-%d", p.Minimum, p.Maximum))
	}
	if p.Format != "" {
		parts = append(parts, "format: "+p.Format)
	}
	if p.ListedBy != "" {
		parts = append(parts, "use "+p.ListedBy+" to find valid values")
	}
	return strings.Join(parts, "; ")
}

// coerce converts a decoded JSON argument to the parameter's type.
func coerce(p catalog.Param, raw any) (any, error) {
	switch p.Type {
	case catalog.Integer:
		n, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		if p.Bounded && (n < p.Minimum || n > p.Maximum) {
			return nil, fmt.Errorf("%d is outside %d-%d", n, p.Minimum, p.Maximum)
		}
		return n, nil
	case catalog.Boolean:
		return toBool(raw)
	case catalog.Enum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected one of %s, got %T", strings.Join(p.Enum, ", "), raw)
		}
		if !slices.Contains(p.Enum, s) {
			return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(p.Enum, ", "))
		}
		return s, nil
	case catalog.Object:
		return toObject(raw)
	case catalog.Array:
		return toArray(raw)
	default:
		return toString(raw)
	}
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("expected a string, got %T", raw)
}

func toInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		return floatToInt(v)
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return floatToInt(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%s is out of range for a 64-bit integer", strings.TrimSpace(v))
		}
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", raw)
}

// floatToInt converts a JSON number to int64. Fractions and values
// outside the int64 range are rejected rather than truncated.
func floatToInt(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("expected an integer, got %v", v)
	}
	if v >= 1<<63 || v < -(1<<63) {
		return 0, fmt.Errorf("%v is out of range for a 64-bit integer", v)
	}
	return int64(v), nil
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, fmt.Errorf("expected true or false, got %q", v)
	}
	return false, fmt.Errorf("expected a boolean, got %T", raw)
}

func toObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err != nil || obj == nil {
			return nil, fmt.Errorf("expected a JSON object")
		}
		return obj, nil
	}
	return nil, fmt.Errorf("expected an object, got %T", raw)
}

func toArray(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case string:
		var arr []any
		if err := json.Unmarshal([]byte(v), &arr); err != nil || arr == nil {
			return nil, fmt.Errorf("expected a JSON array")
		}
		return arr, nil
	}
	return nil, fmt.Errorf("expected an array, got %T", raw)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return fmt.Sprint(v)
}

func queryString(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		b, _ := json.Marshal(v)
		return string(b)
	}
	return scalarString(v)
}
