package form

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Result reports a validation pass. FieldErrors is keyed by field name, with
// nested-group children addressed as "parent.child".
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// Validate checks the payload against the schema: required fields must be
// non-empty, email/number/date kinds must parse, select values must be one of
// the configured options. Each field is reported independently; one bad field
// never blanket-rejects the rest.
func Validate(payload resource.Record, schema resource.FieldSchema) Result {
	fieldErrors := make(map[string]string)
	validateFields(payload, schema, "", fieldErrors)
	if len(fieldErrors) == 0 {
		return Result{Valid: true}
	}
	return Result{FieldErrors: fieldErrors}
}

// ValidateEdit behaves like Validate except that a blank secret field passes
// its required check: on an edit form, a password left blank means "keep the
// existing one" and Diff keeps it out of the payload.
func ValidateEdit(payload resource.Record, schema resource.FieldSchema) Result {
	result := Validate(payload, schema)
	for path := range result.FieldErrors {
		spec, ok := schema.Field(path)
		if !ok || !spec.Secret {
			continue
		}
		if value, _ := payload.Get(path); isEmpty(value) {
			delete(result.FieldErrors, path)
		}
	}
	result.Valid = len(result.FieldErrors) == 0
	return result
}

func validateFields(payload resource.Record, schema resource.FieldSchema, prefix string, fieldErrors map[string]string) {
	for _, spec := range schema {
		path := spec.Name
		if prefix != "" {
			path = prefix + "." + spec.Name
		}

		if spec.Kind == resource.FieldGroup {
			validateFields(payload, resource.FieldSchema(spec.Nested), path, fieldErrors)
			continue
		}

		value, _ := payload.Get(path)
		if isEmpty(value) {
			if spec.Required {
				fieldErrors[path] = spec.DisplayLabel() + " is required"
			}
			continue
		}

		if msg := validateKind(value, spec); msg != "" {
			fieldErrors[path] = msg
		}
	}
}

func validateKind(value any, spec resource.FieldSpec) string {
	switch spec.Kind {
	case resource.FieldEmail:
		s, ok := value.(string)
		if !ok || !emailPattern.MatchString(strings.TrimSpace(s)) {
			return spec.DisplayLabel() + " must be a valid email address"
		}
	case resource.FieldNumber:
		if !parsesAsNumber(value) {
			return spec.DisplayLabel() + " must be a number"
		}
	case resource.FieldDate:
		if !parsesAsDate(value) {
			return spec.DisplayLabel() + " must be a valid date"
		}
	case resource.FieldSelect:
		s := fmt.Sprint(value)
		for _, option := range spec.Options {
			if s == option {
				return ""
			}
		}
		return spec.DisplayLabel() + " must be one of: " + strings.Join(spec.Options, ", ")
	}
	return ""
}

func parsesAsNumber(value any) bool {
	switch v := value.(type) {
	case int, int32, int64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil
	default:
		return false
	}
}

func parsesAsDate(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// BuildInitialValues seeds a form. For create, every schema field defaults to
// an empty string (groups to a map of empty children); for edit, the existing
// record is used verbatim, pass-through fields included, with empty defaults
// filled in only for schema fields the record lacks.
func BuildInitialValues(schema resource.FieldSchema, existing resource.Record) resource.Record {
	values := resource.Record{}
	if existing != nil {
		values = existing.Clone()
	}
	fillDefaults(values, schema, "")
	return values
}

func fillDefaults(values resource.Record, schema resource.FieldSchema, prefix string) {
	for _, spec := range schema {
		path := spec.Name
		if prefix != "" {
			path = prefix + "." + spec.Name
		}
		if spec.Kind == resource.FieldGroup {
			fillDefaults(values, resource.FieldSchema(spec.Nested), path)
			continue
		}
		if _, ok := values.Get(path); !ok {
			values.Set(path, "")
		}
	}
}

// Diff returns only the fields whose value changed between original and
// edited, for minimal update payloads. A blank value for a field the original
// never had counts as unchanged, which is what keeps an untouched form (and a
// password left blank) out of the payload. When any child of a group changed,
// the whole edited group is included so the backend never sees a partial
// nested object.
func Diff(original, edited resource.Record, schema resource.FieldSchema) resource.Record {
	out := resource.Record{}
	for key, editedValue := range edited {
		spec, known := schema.Field(key)
		originalValue, had := original[key]

		if known && spec.Kind == resource.FieldGroup {
			if groupChanged(originalValue, editedValue) {
				out[key] = editedValue
			}
			continue
		}
		if known && spec.Secret && isEmpty(editedValue) {
			continue
		}
		if !had {
			if isEmpty(editedValue) {
				continue
			}
			out[key] = editedValue
			continue
		}
		if !reflect.DeepEqual(originalValue, editedValue) {
			out[key] = editedValue
		}
	}
	return out
}

func groupChanged(original, edited any) bool {
	editedGroup, ok := edited.(map[string]any)
	if !ok {
		return !reflect.DeepEqual(original, edited)
	}
	originalGroup, _ := original.(map[string]any)
	for key, editedValue := range editedGroup {
		originalValue, had := originalGroup[key]
		if !had {
			if isEmpty(editedValue) {
				continue
			}
			return true
		}
		if !reflect.DeepEqual(originalValue, editedValue) {
			return true
		}
	}
	return false
}
