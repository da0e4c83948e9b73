package scene

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/splinxplanet/go-backoffice/pkg/form"
	"github.com/splinxplanet/go-backoffice/pkg/resource"
	"github.com/splinxplanet/go-backoffice/pkg/store"
	"github.com/splinxplanet/go-backoffice/pkg/workflow"
)

// ResourceClient is everything a scene needs from the resource client.
type ResourceClient interface {
	List(ctx context.Context) ([]resource.Record, error)
	Create(ctx context.Context, payload resource.Record) (resource.Record, error)
	Update(ctx context.Context, id string, partial resource.Record) (resource.Record, error)
	Remove(ctx context.Context, id string) error
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger injects a structured logger shared by the store and actions.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithNotifier injects the outcome notifier for the action flows.
func WithNotifier(notify workflow.Notifier) Option {
	return func(c *Controller) {
		c.notify = notify
	}
}

// WithPageSize sets the grid's initial page size.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// Controller wires one resource's collection store, action flows, and grid
// view together, parameterized entirely by the descriptor. Adding a new
// manageable entity means writing a descriptor, not new workflow code.
type Controller struct {
	desc    resource.Descriptor
	client  ResourceClient
	store   *store.Store
	actions *workflow.Actions
	notify  workflow.Notifier
	log     *zap.Logger

	pageSize int

	mu       sync.Mutex
	mountCtx context.Context
	cancel   context.CancelFunc
}

// New builds a Controller for one resource.
func New(desc resource.Descriptor, rc ResourceClient, options ...Option) (*Controller, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, errors.New("scene controller: resource client is required")
	}

	c := &Controller{
		desc:   desc,
		client: rc,
		log:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	storeOpts := []store.Option{store.WithLogger(c.log)}
	if c.pageSize > 0 {
		storeOpts = append(storeOpts, store.WithPageSize(c.pageSize))
	}
	c.store = store.New(desc, rc, storeOpts...)

	actionOpts := []workflow.Option{workflow.WithLogger(c.log)}
	if c.notify != nil {
		actionOpts = append(actionOpts, workflow.WithNotifier(c.notify))
	}
	c.actions = workflow.New(desc, rc, c.store, actionOpts...)
	return c, nil
}

// Descriptor returns the resource configuration this scene serves.
func (c *Controller) Descriptor() resource.Descriptor { return c.desc }

// Store exposes the collection store, e.g. for mounting the grid component.
func (c *Controller) Store() *store.Store { return c.store }

// Mount starts the scene's lifetime and performs the fetch-on-mount refresh.
// The returned error is the refresh outcome; the scene is mounted either way,
// with the last-good (possibly empty) items still visible.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return errors.New("scene controller: already mounted")
	}
	mountCtx, cancel := context.WithCancel(ctx)
	c.mountCtx = mountCtx
	c.cancel = cancel
	c.mu.Unlock()

	return c.store.Refresh(mountCtx)
}

// Unmount cancels in-flight work and detaches the store so late completions
// cannot mutate state.
func (c *Controller) Unmount() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mountCtx = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.store.Close()
}

// Refresh re-fetches the collection within the scene's lifetime.
func (c *Controller) Refresh() error {
	ctx := c.lifetime()
	return c.store.Refresh(ctx)
}

// Rows derives the current grid page.
func (c *Controller) Rows() store.Page { return c.store.Rows() }

// Search updates the filter text (and resets to the first page).
func (c *Controller) Search(text string) { c.store.SetSearchText(text) }

// SetPage moves the grid to a zero-based page.
func (c *Controller) SetPage(page int) { c.store.SetPage(page) }

// SetPageSize changes the page size.
func (c *Controller) SetPageSize(size int) { c.store.SetPageSize(size) }

// Snapshot returns the collection's externally visible state.
func (c *Controller) Snapshot() store.State { return c.store.Snapshot() }

// NewFormSession seeds a modal form: nil existing for create, the target
// record for edit.
func (c *Controller) NewFormSession(existing resource.Record) *form.Session {
	return form.NewSession(c.desc.Schema, existing)
}

// View projects a record for the read-only dialog.
func (c *Controller) View(record resource.Record) []workflow.FieldValue {
	return workflow.Project(record, c.desc.Schema)
}

// Create runs the create flow and schedules a background reconciliation
// refresh on success.
func (c *Controller) Create(ctx context.Context, payload resource.Record) (resource.Record, error) {
	record, err := c.actions.Create(ctx, payload)
	if err == nil {
		c.reconcile()
	}
	return record, err
}

// Edit runs the edit flow and schedules a background reconciliation refresh
// on success.
func (c *Controller) Edit(ctx context.Context, original, edited resource.Record) (resource.Record, error) {
	record, err := c.actions.Edit(ctx, original, edited)
	if err == nil {
		c.reconcile()
	}
	return record, err
}

// Delete runs the confirm-then-delete flow.
func (c *Controller) Delete(ctx context.Context, record resource.Record, confirm workflow.ConfirmFunc) error {
	err := c.actions.Delete(ctx, record, confirm)
	if err == nil {
		c.reconcile()
	}
	return err
}

// reconcile refreshes in the background after a local patch. The sequence
// guard in the store keeps an older in-flight response from clobbering the
// patch, and unmount cancels the fetch.
func (c *Controller) reconcile() {
	ctx := c.lifetime()
	go func() {
		if err := c.store.Refresh(ctx); err != nil {
			c.log.Debug("background reconciliation refresh failed",
				zap.String("resource", c.desc.Name), zap.Error(err))
		}
	}()
}

func (c *Controller) lifetime() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mountCtx != nil {
		return c.mountCtx
	}
	return context.Background()
}
