package form

import (
	"context"
	"errors"

	"github.com/splinxplanet/go-backoffice/pkg/client"
	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// State names the submit lifecycle of a single form session.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
)

// SubmitFunc receives the validated, sanitized payload.
type SubmitFunc func(ctx context.Context, payload resource.Record) error

// Session drives one modal form through Idle -> Validating -> {Invalid |
// Submitting -> {Succeeded | Failed}}. Entered values survive a failed submit
// so the user can retry without re-entering anything. Sessions belong to a
// single UI flow and are not safe for concurrent use.
type Session struct {
	schema      resource.FieldSchema
	original    resource.Record
	values      resource.Record
	state       State
	fieldErrors map[string]string
	lastErr     error
}

// NewSession seeds a form. Pass nil existing for a create form.
func NewSession(schema resource.FieldSchema, existing resource.Record) *Session {
	return &Session{
		schema:   schema,
		original: existing.Clone(),
		values:   BuildInitialValues(schema, existing),
		state:    StateIdle,
	}
}

// SetValue records a user edit at a possibly dotted path.
func (s *Session) SetValue(path string, value any) {
	s.values.Set(path, value)
}

// Values returns a copy of the current form values.
func (s *Session) Values() resource.Record { return s.values.Clone() }

// Original returns the record the form was seeded from, nil for create.
func (s *Session) Original() resource.Record { return s.original.Clone() }

// State reports where the session is in its lifecycle.
func (s *Session) State() State { return s.state }

// FieldErrors returns the per-field messages from the last failed validation.
func (s *Session) FieldErrors() map[string]string { return s.fieldErrors }

// Err returns the failure from the last submit attempt, if any.
func (s *Session) Err() error { return s.lastErr }

// Submit validates and, when clean, forwards the sanitized payload. Invalid
// payloads never reach submit; a submit failure leaves the form idle with its
// values intact so resubmission needs no re-entry.
func (s *Session) Submit(ctx context.Context, submit SubmitFunc) error {
	if submit == nil {
		return errors.New("form session: submit func is required")
	}
	if s.state == StateSubmitting {
		return errors.New("form session: submit already in flight")
	}

	s.state = StateValidating
	var result Result
	if s.original != nil {
		result = ValidateEdit(s.values, s.schema)
	} else {
		result = Validate(s.values, s.schema)
	}
	if !result.Valid {
		s.fieldErrors = result.FieldErrors
		s.state = StateIdle
		return &client.ValidationError{FieldErrors: result.FieldErrors}
	}
	s.fieldErrors = nil

	s.state = StateSubmitting
	err := submit(ctx, Sanitize(s.values, s.schema))
	s.state = StateIdle
	if err != nil {
		s.lastErr = err
		var validationErr *client.ValidationError
		if errors.As(err, &validationErr) {
			s.fieldErrors = validationErr.FieldErrors
		}
		return err
	}
	s.lastErr = nil
	return nil
}
