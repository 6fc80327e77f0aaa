// Package catalog holds the static table of Fivetran REST operations exposed
// as tools. Every other component reads its descriptors; there is no
// per-operation code anywhere else.
package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"sync"
)

// ErrUnknownOperation is returned by Lookup for names not in the catalog.
var ErrUnknownOperation = errors.New("unknown operation")

// Location says where a parameter travels in the HTTP request.
type Location string

const (
	InPath  Location = "path"
	InQuery Location = "query"
	InBody  Location = "body"
)

// Type is the argument type accepted for a parameter.
type Type string

const (
	String  Type = "string"
	Integer Type = "integer"
	Boolean Type = "boolean"
	Enum    Type = "enum"
	Object  Type = "object"
	Array   Type = "array" // array of strings
)

// Param declares one argument of an operation.
type Param struct {
	Name        string
	In          Location
	Type        Type
	Required    bool
	Enum        []string
	Description string

	// Inline marks an object body parameter whose keys become the request
	// body root instead of a nested field.
	Inline bool

	// ListedBy names the operation that lists valid values for an
	// identifier parameter.
	ListedBy string

	// Format is a short human hint such as "conn_xxxxxxxx".
	Format string

	// Minimum and Maximum bound an Integer parameter when Bounded is set.
	Bounded bool
	Minimum int64
	Maximum int64
}

// Field is one key/explanation pair rendered into a description.
type Field struct {
	Key  string
	Text string
}

// Operation describes one upstream endpoint. Operations are immutable once
// the catalog is built.
type Operation struct {
	Name      string
	Method    string
	Path      string
	Params    []Param
	Paginated bool

	// Summary is the base description before rendering.
	Summary       string
	Example       []Field
	CommonUpdates []Field

	// Description is rendered from the fields above when the catalog is
	// built.
	Description string
}

// IsWrite reports whether the operation mutates upstream state. It follows
// from the HTTP method alone.
func (o *Operation) IsWrite() bool {
	return o.Method != http.MethodGet
}

// Param returns the declared parameter with the given name.
func (o *Operation) Param(name string) (Param, bool) {
	for _, p := range o.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ParamsIn returns the declared parameters at location in, in declaration order.
func (o *Operation) ParamsIn(in Location) []Param {
	var out []Param
	for _, p := range o.Params {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Placeholders returns the {name} segments of the path template in order.
func (o *Operation) Placeholders() []string {
	matches := placeholderRe.FindAllStringSubmatch(o.Path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Catalog is an ordered, read-only set of operations indexed by name.
type Catalog struct {
	ops    []Operation
	byName map[string]int
}

// New builds a catalog from ops, rendering every description. The first
// operation wins on duplicate names; Validate reports the duplicate.
func New(ops []Operation) *Catalog {
	c := &Catalog{
		ops:    make([]Operation, len(ops)),
		byName: make(map[string]int, len(ops)),
	}
	for i, op := range ops {
		op.Description = Describe(op)
		c.ops[i] = op
		if _, exists := c.byName[op.Name]; !exists {
			c.byName[op.Name] = i
		}
	}
	return c
}

var builtin = sync.OnceValue(func() *Catalog {
	return New(operations())
})

// Default returns the built-in Fivetran catalog.
func Default() *Catalog {
	return builtin()
}

// Len returns the number of operations.
func (c *Catalog) Len() int {
	return len(c.ops)
}

// Operations returns copies of the operations in declaration order.
func (c *Catalog) Operations() []Operation {
	out := make([]Operation, len(c.ops))
	for i := range c.ops {
		out[i] = c.ops[i].clone()
	}
	return out
}

// Names returns every operation name in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.ops))
	for i := range c.ops {
		names[i] = c.ops[i].Name
	}
	return names
}

// Lookup returns the operation called name.
func (c *Catalog) Lookup(name string) (*Operation, error) {
	i, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	op := c.ops[i].clone()
	return &op, nil
}

func (o Operation) clone() Operation {
	o.Params = slices.Clone(o.Params)
	o.Example = slices.Clone(o.Example)
	o.CommonUpdates = slices.Clone(o.CommonUpdates)
	return o
}
