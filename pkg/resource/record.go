package resource

import (
	"fmt"
	"strings"
)

// Record is one instance of a resource: an opaque field-to-value mapping keyed
// by the descriptor's primary-key field. The workflow never interprets domain
// meaning of a value beyond its FieldSpec kind.
type Record map[string]any

// Clone returns a copy deep enough for the workflow's needs: top-level keys
// plus one level of nested group maps.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		if nested, ok := value.(map[string]any); ok {
			inner := make(map[string]any, len(nested))
			for k, v := range nested {
				inner[k] = v
			}
			out[key] = inner
			continue
		}
		out[key] = value
	}
	return out
}

// Get resolves a possibly dotted path ("nextOfKin.email") against the record.
func (r Record) Get(path string) (any, bool) {
	parent, child, nested := strings.Cut(path, ".")
	value, ok := r[parent]
	if !ok {
		return nil, false
	}
	if !nested {
		return value, true
	}
	group, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := group[child]
	return v, ok
}

// Set writes a possibly dotted path, creating the intermediate group map when
// missing.
func (r Record) Set(path string, value any) {
	parent, child, nested := strings.Cut(path, ".")
	if !nested {
		r[parent] = value
		return
	}
	group, ok := r[parent].(map[string]any)
	if !ok {
		group = make(map[string]any)
		r[parent] = group
	}
	group[child] = value
}

// StringValue renders the value at path for display and search. Missing values
// render as the empty string.
func (r Record) StringValue(path string) string {
	value, ok := r.Get(path)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// ID returns the record identity under the given primary-key field.
func (r Record) ID(primaryKey string) (string, bool) {
	value, ok := r[primaryKey]
	if !ok || value == nil {
		return "", false
	}
	id := fmt.Sprint(value)
	return id, id != ""
}
