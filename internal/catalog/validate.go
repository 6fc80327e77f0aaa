package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Validate checks the catalog for self-consistency and returns every
// problem found, joined.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.ops))
	for i := range c.ops {
		op := &c.ops[i]
		if op.Name == "" {
			errs = append(errs, fmt.Errorf("operation %d has empty name", i))
			continue
		}
		if seen[op.Name] {
			errs = append(errs, fmt.Errorf("duplicate operation %q", op.Name))
		}
		seen[op.Name] = true
		if err := c.validateOperation(op); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) validateOperation(op *Operation) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("operation %q: "+format, append([]any{op.Name}, args...)...))
	}

	if !allowedMethods[op.Method] {
		fail("unsupported method %q", op.Method)
	}
	if op.Path == "" || op.Path[0] != '/' {
		fail("path %q must start with /", op.Path)
	}
	if op.Paginated && op.Method != http.MethodGet {
		fail("only GET operations can be paginated")
	}

	placeholders := op.Placeholders()
	for _, name := range placeholders {
		p, ok := op.Param(name)
		if !ok || p.In != InPath {
			fail("placeholder {%s} has no path parameter", name)
			continue
		}
		if !p.Required {
			fail("path parameter %q must be required", name)
		}
	}

	names := make(map[string]bool, len(op.Params))
	for _, p := range op.Params {
		if names[p.Name] {
			fail("duplicate parameter %q", p.Name)
		}
		names[p.Name] = true

		switch p.In {
		case InPath:
			if !slices.Contains(placeholders, p.Name) {
				fail("path parameter %q has no placeholder", p.Name)
			}
		case InQuery, InBody:
		default:
			fail("parameter %q has invalid location %q", p.Name, p.In)
		}
		if p.Description == "" {
			fail("parameter %q has no description", p.Name)
		}
		if p.Type == Enum && len(p.Enum) == 0 {
			fail("enum parameter %q lists no values", p.Name)
		}
		if p.Bounded && (p.Type != Integer || p.Minimum > p.Maximum) {
			fail("bounded parameter %q must be an integer with minimum <= maximum", p.Name)
		}
		if p.Inline && (p.In != InBody || p.Type != Object) {
			fail("inline parameter %q must be an object body parameter", p.Name)
		}
		if p.ListedBy != "" {
			if _, ok := c.byName[p.ListedBy]; !ok {
				fail("parameter %q is listed by unknown operation %q", p.Name, p.ListedBy)
			}
		}
	}

	inline := 0
	for _, p := range op.ParamsIn(InBody) {
		if p.Inline {
			inline++
		}
	}
	if inline > 0 && len(op.ParamsIn(InBody)) > 1 {
		fail("inline body parameter cannot be combined with other body parameters")
	}

	if _, err := CompileInputSchema(op); err != nil {
		fail("input schema: %v", err)
	}
	return errors.Join(errs...)
}

// CompileInputSchema compiles the exported argument schema of op.
func CompileInputSchema(op *Operation) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(InputSchema(op))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := op.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
