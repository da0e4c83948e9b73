package resource

import "strings"

// FieldKind is the simplified enum for form-friendly field kinds.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldEmail  FieldKind = "email"
	FieldDate   FieldKind = "date"
	FieldSelect FieldKind = "select"
	FieldGroup  FieldKind = "group"
)

// FieldSpec models a single viewable/editable field of a record. Group fields
// carry their children in Nested and are addressed as "parent.child".
type FieldSpec struct {
	Name     string      `json:"name" yaml:"name"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
	Kind     FieldKind   `json:"kind" yaml:"kind"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Secret   bool        `json:"secret,omitempty" yaml:"secret,omitempty"`
	Rich     bool        `json:"rich,omitempty" yaml:"rich,omitempty"`
	Nested   []FieldSpec `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// DisplayLabel falls back to the field name when no label is configured.
func (f FieldSpec) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// FieldSchema is the ordered field list describing one resource's records.
type FieldSchema []FieldSpec

// Field looks up a spec by name. Dotted paths resolve group children, so
// "nextOfKin.email" returns the child spec of the nextOfKin group.
func (s FieldSchema) Field(name string) (FieldSpec, bool) {
	parent, child, nested := strings.Cut(name, ".")
	for _, spec := range s {
		if spec.Name != parent {
			continue
		}
		if !nested {
			return spec, true
		}
		if spec.Kind != FieldGroup {
			return FieldSpec{}, false
		}
		return FieldSchema(spec.Nested).Field(child)
	}
	return FieldSpec{}, false
}

// Names returns the top-level field names in schema order.
func (s FieldSchema) Names() []string {
	out := make([]string, 0, len(s))
	for _, spec := range s {
		out = append(out, spec.Name)
	}
	return out
}
