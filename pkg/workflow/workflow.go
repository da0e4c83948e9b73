package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/splinxplanet/go-backoffice/pkg/client"
	"github.com/splinxplanet/go-backoffice/pkg/form"
	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// ErrNotConfirmed aborts a delete whose confirmation step was declined.
var ErrNotConfirmed = errors.New("workflow: action not confirmed")

// Notifier receives the single user-visible outcome of each action.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Mutator is the slice of the resource client the write actions need.
type Mutator interface {
	Create(ctx context.Context, payload resource.Record) (resource.Record, error)
	Update(ctx context.Context, id string, partial resource.Record) (resource.Record, error)
	Remove(ctx context.Context, id string) error
}

// Patcher is the slice of the collection store the actions mutate.
type Patcher interface {
	ApplyCreated(record resource.Record)
	ApplyUpdated(record resource.Record)
	ApplyDeleted(id string)
}

// ConfirmFunc answers the delete confirmation prompt.
type ConfirmFunc func(record resource.Record) bool

// Option customises Actions.
type Option func(*Actions)

// WithNotifier injects the outcome notifier.
func WithNotifier(notify Notifier) Option {
	return func(a *Actions) {
		if notify != nil {
			a.notify = notify
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Actions) {
		if log != nil {
			a.log = log
		}
	}
}

// Actions implements the four record actions for one resource. Every action
// performs at most one client call, one store mutation, and one notification;
// the target record is always passed in explicitly, never read from shared
// "currently selected" state.
type Actions struct {
	desc   resource.Descriptor
	client Mutator
	patch  Patcher
	notify Notifier
	log    *zap.Logger
}

// New wires the actions for one resource.
func New(desc resource.Descriptor, mutator Mutator, patch Patcher, options ...Option) *Actions {
	a := &Actions{
		desc:   desc,
		client: mutator,
		patch:  patch,
		notify: nopNotifier{},
		log:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Create validates the payload, creates the record server-side, and appends
// the server-assigned result locally. Invalid payloads never reach the
// network.
func (a *Actions) Create(ctx context.Context, payload resource.Record) (resource.Record, error) {
	if result := form.Validate(payload, a.desc.Schema); !result.Valid {
		err := &client.ValidationError{FieldErrors: result.FieldErrors}
		a.notify.Error(err.Error())
		return nil, err
	}

	record, err := a.client.Create(ctx, form.Sanitize(payload, a.desc.Schema))
	if err != nil {
		a.notify.Error(err.Error())
		return nil, err
	}
	a.patch.ApplyCreated(record)
	a.notify.Success(a.title() + " created")
	return record, nil
}

// Edit diffs the edited values against the original and updates only the
// changed fields. An unchanged form sends nothing at all.
func (a *Actions) Edit(ctx context.Context, original, edited resource.Record) (resource.Record, error) {
	if result := form.ValidateEdit(edited, a.desc.Schema); !result.Valid {
		err := &client.ValidationError{FieldErrors: result.FieldErrors}
		a.notify.Error(err.Error())
		return nil, err
	}

	changed := form.Diff(original, edited, a.desc.Schema)
	if len(changed) == 0 {
		a.notify.Success("No changes to save")
		return original, nil
	}

	id, ok := original.ID(a.desc.PrimaryKey)
	if !ok {
		err := fmt.Errorf("workflow: %s record has no %s", a.desc.Name, a.desc.PrimaryKey)
		a.notify.Error(err.Error())
		return nil, err
	}

	record, err := a.client.Update(ctx, id, form.Sanitize(changed, a.desc.Schema))
	if err != nil {
		a.notify.Error(err.Error())
		return nil, err
	}
	a.patch.ApplyUpdated(record)
	a.notify.Success(a.title() + " updated")
	return record, nil
}

// Delete removes the record after an explicit confirmation. The local item is
// only removed once the server confirms: deletion is the one action where
// optimism is not worth the inconsistency risk.
func (a *Actions) Delete(ctx context.Context, record resource.Record, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(record) {
		return ErrNotConfirmed
	}

	id, ok := record.ID(a.desc.PrimaryKey)
	if !ok {
		err := fmt.Errorf("workflow: %s record has no %s", a.desc.Name, a.desc.PrimaryKey)
		a.notify.Error(err.Error())
		return err
	}

	if err := a.client.Remove(ctx, id); err != nil {
		a.notify.Error(err.Error())
		return err
	}
	a.patch.ApplyDeleted(id)
	a.notify.Success(a.title() + " deleted")
	return nil
}

func (a *Actions) title() string {
	if a.desc.Title != "" {
		return a.desc.Title
	}
	return a.desc.Name
}
