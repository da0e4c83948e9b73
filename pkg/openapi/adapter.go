// Package openapi derives resource field schemas from a backend OpenAPI
// document, so descriptors can be generated instead of hand-written when the
// backend publishes a spec.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// SchemaFromDocument extracts the named component schema from an OpenAPI
// document and converts it into a FieldSchema. Fields come out in name order;
// the document's property maps carry no usable ordering.
func SchemaFromDocument(ctx context.Context, data []byte, component string) (resource.FieldSchema, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi adapter: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi adapter: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, errors.New("openapi adapter: document has no component schemas")
	}

	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi adapter: component schema %q not found", component)
	}
	if kind := firstSchemaType(ref.Value.Type); kind != "" && kind != "object" {
		return nil, fmt.Errorf("openapi adapter: component schema %q is %s, want object", component, kind)
	}

	return convertObject(ref.Value, true), nil
}

// DescriptorFromDocument builds a full descriptor around a component schema
// using the conventional endpoint table for the resource name.
func DescriptorFromDocument(ctx context.Context, data []byte, name, component string) (resource.Descriptor, error) {
	schema, err := SchemaFromDocument(ctx, data, component)
	if err != nil {
		return resource.Descriptor{}, err
	}
	desc := resource.Descriptor{
		Name:       name,
		Title:      component,
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints(name),
		Schema:     schema,
	}
	if err := desc.Validate(); err != nil {
		return resource.Descriptor{}, err
	}
	return desc, nil
}

func convertObject(src *openapi3.Schema, allowGroups bool) resource.FieldSchema {
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	schema := make(resource.FieldSchema, 0, len(names))
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		spec, ok := convertField(name, ref.Value, allowGroups)
		if !ok {
			continue
		}
		if _, req := required[name]; req {
			spec.Required = true
		}
		schema = append(schema, spec)
	}
	return schema
}

func convertField(name string, src *openapi3.Schema, allowGroups bool) (resource.FieldSpec, bool) {
	spec := resource.FieldSpec{
		Name:  name,
		Label: src.Title,
	}

	switch firstSchemaType(src.Type) {
	case "integer", "number":
		spec.Kind = resource.FieldNumber
	case "object":
		// Nested groups bottom out after one level, matching the form model.
		if !allowGroups {
			return resource.FieldSpec{}, false
		}
		spec.Kind = resource.FieldGroup
		spec.Nested = convertObject(src, false)
		if len(spec.Nested) == 0 {
			return resource.FieldSpec{}, false
		}
	case "array", "boolean":
		// No grid/form treatment for these; descriptors add them by hand
		// when a screen needs one.
		return resource.FieldSpec{}, false
	default:
		spec.Kind = textKind(src)
	}

	if len(src.Enum) > 0 && spec.Kind != resource.FieldGroup {
		spec.Kind = resource.FieldSelect
		spec.Options = stringifyEnum(src.Enum)
	}
	if src.Format == "password" {
		spec.Secret = true
	}
	return spec, true
}

func textKind(src *openapi3.Schema) resource.FieldKind {
	switch src.Format {
	case "email":
		return resource.FieldEmail
	case "date", "date-time":
		return resource.FieldDate
	default:
		return resource.FieldText
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
