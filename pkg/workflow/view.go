package workflow

import "github.com/splinxplanet/go-backoffice/pkg/resource"

// FieldValue is one line of the read-only view projection.
type FieldValue struct {
	Name     string
	Label    string
	Value    string
	Children []FieldValue
}

// Project renders a record through the schema for the view dialog. Secret
// fields are masked, group fields carry their children, and values the schema
// does not know about are left out (the view shows the screen's fields, not
// the raw payload).
func Project(record resource.Record, schema resource.FieldSchema) []FieldValue {
	return projectFields(record, schema, "")
}

func projectFields(record resource.Record, schema resource.FieldSchema, prefix string) []FieldValue {
	out := make([]FieldValue, 0, len(schema))
	for _, spec := range schema {
		path := spec.Name
		if prefix != "" {
			path = prefix + "." + spec.Name
		}
		fv := FieldValue{Name: path, Label: spec.DisplayLabel()}
		switch {
		case spec.Kind == resource.FieldGroup:
			fv.Children = projectFields(record, resource.FieldSchema(spec.Nested), path)
		case spec.Secret:
			if record.StringValue(path) != "" {
				fv.Value = "••••••••"
			}
		default:
			fv.Value = record.StringValue(path)
		}
		out = append(out, fv)
	}
	return out
}
