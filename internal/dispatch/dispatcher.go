// Package dispatch turns a tool invocation into an authenticated Fivetran
// API call. The steps run in a fixed order for every operation: lookup,
// write guard, parameter resolution, authentication, execution (single
// request or pagination) and response normalization.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/fivetran-mcp/internal/auth"
	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
	"github.com/bobmcallan/fivetran-mcp/internal/common"
	"github.com/bobmcallan/fivetran-mcp/internal/config"
)

// Options tune a Dispatcher. Zero values fall back to the config defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	PageSize   int
	MaxPages   int
	HTTPClient *http.Client
}

// Dispatcher is the single entry point for tool invocations. It holds only
// read-only state and is safe for concurrent use.
type Dispatcher struct {
	catalog  *catalog.Catalog
	policy   *config.Policy
	auth     *auth.Basic
	client   *Client
	pageSize int
	maxPages int
	logger   *common.Logger
}

// New creates a Dispatcher over cat governed by policy.
func New(cat *catalog.Catalog, policy *config.Policy, opts Options, logger *common.Logger) *Dispatcher {
	defaults := config.NewDefaultConfig().Fivetran
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaults.PageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaults.MaxPages
	}
	return &Dispatcher{
		catalog:  cat,
		policy:   policy,
		auth:     auth.NewBasic(policy.Credentials()),
		client:   NewClient(opts.BaseURL, opts.UserAgent, opts.Timeout, opts.HTTPClient),
		pageSize: opts.PageSize,
		maxPages: opts.MaxPages,
		logger:   logger,
	}
}

// NewFromConfig creates a Dispatcher from the loaded configuration.
func NewFromConfig(cfg *config.Config, cat *catalog.Catalog, logger *common.Logger) *Dispatcher {
	return New(cat, cfg.Policy(), Options{
		BaseURL:   cfg.Fivetran.BaseURL,
		UserAgent: cfg.Fivetran.UserAgent,
		Timeout:   cfg.Fivetran.Timeout(),
		PageSize:  cfg.Fivetran.PageSize,
		MaxPages:  cfg.Fivetran.MaxPages,
	}, logger)
}

// Catalog returns the catalog the dispatcher serves.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// Invoke runs the operation called name with args and returns its JSON
// payload. Every failure is a *Error. Local validation failures return
// before any network activity.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	logger := d.logger.WithCorrelationId(uuid.New().String())

	op, err := d.catalog.Lookup(name)
	if err != nil {
		logger.Warn().Str("tool", name).Msg("unknown tool")
		return nil, d.unknownOperation(name)
	}

	if err := CheckWrite(op, d.policy); err != nil {
		logger.Warn().Str("tool", name).Str("method", op.Method).Msg("write operation blocked")
		return nil, err
	}

	req, err := Resolve(op, args)
	if err != nil {
		logger.Debug().Str("tool", name).Str("error", err.Error()).Msg("invalid arguments")
		return nil, err
	}

	authorization, err := d.auth.Header()
	if err != nil {
		logger.Warn().Str("tool", name).Msg("missing Fivetran credentials")
		return nil, missingCredentials(op, err)
	}

	start := time.Now()
	var payload json.RawMessage
	if op.Paginated && req.Method == http.MethodGet && !req.Query.Has("cursor") {
		payload, err = d.paginate(ctx, logger, op, req, authorization)
	} else {
		payload, err = d.single(ctx, logger, op, req, authorization)
	}

	duration := time.Since(start)
	if err != nil {
		logger.Warn().Str("tool", name).Str("method", op.Method).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("tool failed")
		return nil, err
	}
	logger.Info().Str("tool", name).Str("method", op.Method).Int64("duration_ms", duration.Milliseconds()).Msg("tool invoked")
	return payload, nil
}

// single issues exactly one upstream request.
func (d *Dispatcher) single(ctx context.Context, logger *common.Logger, op *catalog.Operation, req *Request, authorization string) (json.RawMessage, error) {
	resp, err := d.client.do(ctx, logger, req, authorization)
	if err != nil {
		return nil, transportError(op, err)
	}
	if !resp.ok() {
		return nil, upstreamError(op, resp.status, resp.body)
	}
	return normalize(resp.body)
}

// normalize returns a 2xx body as a JSON payload. Empty bodies become a
// success envelope and non-JSON bodies a JSON string.
func normalize(body []byte) (json.RawMessage, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return json.RawMessage(`{"code":"Success"}`), nil
	}
	if json.Valid(body) {
		return json.RawMessage(body), nil
	}
	return json.Marshal(string(body))
}

func missingCredentials(op *catalog.Operation, cause error) *Error {
	e := newError(KindMissingCredentials, op.Name, "Fivetran API credentials are not configured")
	e.Hint = "set FIVETRAN_API_KEY and FIVETRAN_API_SECRET (or api_key and api_secret in the [fivetran] config section) and restart"
	e.cause = cause
	return e
}

func (d *Dispatcher) unknownOperation(name string) *Error {
	e := newError(KindUnknownOperation, name, "no tool named %q among %d available tools", name, d.catalog.Len())
	similar := similarNames(name, d.catalog.Names(), 5)
	if len(similar) > 0 {
		e.Hint = "did you mean: " + strings.Join(similar, ", ")
	} else {
		e.Hint = "list the available tools to discover valid names"
	}
	e.Details = map[string]any{"catalog_size": d.catalog.Len()}
	return e
}

// similarNames returns up to limit names sharing the most underscore
// separated words with name.
func similarNames(name string, names []string, limit int) []string {
	words := strings.Split(strings.ToLower(name), "_")
	type scored struct {
		name  string
		score int
	}
	var matches []scored
	for _, candidate := range names {
		score := 0
		for _, w := range words {
			if len(w) > 2 && strings.Contains(candidate, w) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{candidate, score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	out := make([]string, 0, limit)
	for i := 0; i < len(matches) && i < limit; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// AsError extracts the *Error from err, wrapping foreign errors as
// UpstreamError.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUpstreamError, Message: err.Error(), cause: err}
}
