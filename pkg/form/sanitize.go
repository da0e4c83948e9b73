package form

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

var richTextPolicy = bluemonday.UGCPolicy()

// Sanitize strips unsafe markup from rich-text fields before the payload
// leaves the form engine. Non-rich fields pass through untouched.
func Sanitize(payload resource.Record, schema resource.FieldSchema) resource.Record {
	out := payload.Clone()
	sanitizeFields(out, schema, "")
	return out
}

func sanitizeFields(values resource.Record, schema resource.FieldSchema, prefix string) {
	for _, spec := range schema {
		path := spec.Name
		if prefix != "" {
			path = prefix + "." + spec.Name
		}
		if spec.Kind == resource.FieldGroup {
			sanitizeFields(values, resource.FieldSchema(spec.Nested), path)
			continue
		}
		if !spec.Rich {
			continue
		}
		if s, ok := values.Get(path); ok {
			if text, ok := s.(string); ok {
				values.Set(path, richTextPolicy.Sanitize(text))
			}
		}
	}
}
