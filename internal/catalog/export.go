package catalog

import "net/http"

// Listing is the discovery projection of one operation: what an agent sees
// in a tool list.
type Listing struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	ReadOnly    bool           `json:"readOnly"`
	Destructive bool           `json:"destructive"`
}

// Export projects every operation into a Listing, in catalog order. The
// result is rebuilt on every call and shares nothing with the catalog.
func (c *Catalog) Export() []Listing {
	out := make([]Listing, 0, len(c.ops))
	for i := range c.ops {
		out = append(out, ListingFor(&c.ops[i]))
	}
	return out
}

// ListingFor projects a single operation.
func ListingFor(op *Operation) Listing {
	return Listing{
		Name:        op.Name,
		Description: op.Description,
		InputSchema: InputSchema(op),
		ReadOnly:    !op.IsWrite(),
		Destructive: op.Method == http.MethodDelete,
	}
}

// InputSchema returns the JSON Schema object describing op's arguments.
// Undeclared arguments are rejected, so additionalProperties is false.
func InputSchema(op *Operation) map[string]any {
	properties := make(map[string]any, len(op.Params))
	required := []any{}
	for _, p := range op.Params {
		properties[p.Name] = propertySchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func propertySchema(p Param) map[string]any {
	s := map[string]any{}
	switch p.Type {
	case Integer:
		s["type"] = "integer"
		if p.Bounded {
			s["minimum"] = p.Minimum
			s["maximum"] = p.Maximum
		}
	case Boolean:
		s["type"] = "boolean"
	case Object:
		s["type"] = "object"
	case Array:
		s["type"] = "array"
		s["items"] = map[string]any{"type": "string"}
	case Enum:
		s["type"] = "string"
		values := make([]any, len(p.Enum))
		for i, v := range p.Enum {
			values[i] = v
		}
		s["enum"] = values
	default:
		s["type"] = "string"
	}
	if p.Description != "" {
		s["description"] = p.Description
	}
	return s
}
