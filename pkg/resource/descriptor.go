package resource

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const idPlaceholder = "{id}"

var (
	errNameMissing       = errors.New("resource descriptor: name is required")
	errPrimaryKeyMissing = errors.New("resource descriptor: primary key field is required")
	errSchemaEmpty       = errors.New("resource descriptor: field schema is empty")
)

// Endpoints is the per-resource path table. The backend names its routes
// inconsistently across resources, so the exact paths live here instead of
// being derived from the resource name at call sites.
type Endpoints struct {
	List   string `json:"list" yaml:"list"`
	Get    string `json:"get,omitempty" yaml:"get,omitempty"`
	Create string `json:"create" yaml:"create"`
	Update string `json:"update" yaml:"update"`
	Delete string `json:"delete" yaml:"delete"`
}

// ForID substitutes the record id into a path template.
func (e Endpoints) ForID(template, id string) string {
	if !strings.Contains(template, idPlaceholder) {
		return strings.TrimSuffix(template, "/") + "/" + id
	}
	return strings.ReplaceAll(template, idPlaceholder, id)
}

// DefaultEndpoints builds the conventional path table for a resource name.
func DefaultEndpoints(name string) Endpoints {
	return Endpoints{
		List:   "/" + name,
		Get:    "/" + name + "/" + idPlaceholder,
		Create: "/" + name + "/create",
		Update: "/" + name + "/" + idPlaceholder,
		Delete: "/" + name + "/" + idPlaceholder,
	}
}

// Descriptor is the static configuration for one manageable entity type.
// Adding a new entity to the back office means adding a descriptor; the
// workflow itself stays untouched.
type Descriptor struct {
	// Name is the singular resource identifier ("admin", "event"). It doubles
	// as the wrapper-key hint when unwrapping list responses.
	Name string `json:"name" yaml:"name"`
	// Title is the human-facing screen name.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// PrimaryKey names the identity field the backend assigns ("_id").
	PrimaryKey string    `json:"primaryKey" yaml:"primaryKey"`
	Endpoints  Endpoints `json:"endpoints" yaml:"endpoints"`
	Schema     FieldSchema `json:"schema" yaml:"schema"`
	// Searchable lists the fields the grid filter matches against. Empty means
	// every non-group field in the schema.
	Searchable []string `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	// Timeout bounds each client call for this resource. Zero means the client
	// default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// SearchFields resolves the configured searchable set, defaulting to all
// non-group schema fields.
func (d Descriptor) SearchFields() []string {
	if len(d.Searchable) > 0 {
		return append([]string{}, d.Searchable...)
	}
	out := make([]string, 0, len(d.Schema))
	for _, spec := range d.Schema {
		if spec.Kind == FieldGroup {
			continue
		}
		out = append(out, spec.Name)
	}
	return out
}

// Validate checks the descriptor is complete enough to drive the workflow.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errNameMissing
	}
	if strings.TrimSpace(d.PrimaryKey) == "" {
		return errPrimaryKeyMissing
	}
	if len(d.Schema) == 0 {
		return errSchemaEmpty
	}
	if d.Endpoints.List == "" || d.Endpoints.Create == "" || d.Endpoints.Update == "" || d.Endpoints.Delete == "" {
		return fmt.Errorf("resource descriptor %q: endpoint table is incomplete", d.Name)
	}
	for _, name := range d.Searchable {
		if _, ok := d.Schema.Field(name); !ok {
			return fmt.Errorf("resource descriptor %q: searchable field %q is not in the schema", d.Name, name)
		}
	}
	return validateSchema(d.Name, d.Schema)
}

func validateSchema(resource string, schema FieldSchema) error {
	seen := make(map[string]struct{}, len(schema))
	for _, spec := range schema {
		if strings.TrimSpace(spec.Name) == "" {
			return fmt.Errorf("resource descriptor %q: field with empty name", resource)
		}
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("resource descriptor %q: duplicate field %q", resource, spec.Name)
		}
		seen[spec.Name] = struct{}{}
		switch spec.Kind {
		case FieldText, FieldNumber, FieldEmail, FieldDate:
		case FieldSelect:
			if len(spec.Options) == 0 {
				return fmt.Errorf("resource descriptor %q: select field %q has no options", resource, spec.Name)
			}
		case FieldGroup:
			if len(spec.Nested) == 0 {
				return fmt.Errorf("resource descriptor %q: group field %q has no children", resource, spec.Name)
			}
			for _, child := range spec.Nested {
				if child.Kind == FieldGroup {
					return fmt.Errorf("resource descriptor %q: group field %q nests another group", resource, spec.Name)
				}
			}
			if err := validateSchema(resource, FieldSchema(spec.Nested)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("resource descriptor %q: field %q has unknown kind %q", resource, spec.Name, spec.Kind)
		}
	}
	return nil
}
