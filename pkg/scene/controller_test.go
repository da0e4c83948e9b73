package scene

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
	"github.com/splinxplanet/go-backoffice/pkg/workflow"
)

type fakeClient struct {
	mu      sync.Mutex
	items   []resource.Record
	listErr error
	nextID  string

	gate    chan struct{} // when set, the first List call blocks on it
	entered chan struct{}
	gated   bool
}

func (f *fakeClient) List(ctx context.Context) ([]resource.Record, error) {
	f.mu.Lock()
	gate := f.gate
	first := !f.gated
	f.gated = true
	f.mu.Unlock()

	if gate != nil && first {
		if f.entered != nil {
			close(f.entered)
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]resource.Record{}, f.items...), nil
}

func (f *fakeClient) Create(ctx context.Context, payload resource.Record) (resource.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := payload.Clone()
	out["_id"] = f.nextID
	f.items = append(f.items, out)
	return out, nil
}

func (f *fakeClient) Update(ctx context.Context, id string, partial resource.Record) (resource.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if existing, _ := item.ID("_id"); existing == id {
			merged := item.Clone()
			for key, value := range partial {
				merged[key] = value
			}
			f.items[i] = merged
			return merged.Clone(), nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeClient) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if existing, _ := item.ID("_id"); existing == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func adminDescriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:       "admin",
		Title:      "Team Member",
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints("admin"),
		Schema: resource.FieldSchema{
			{Name: "firstName", Label: "First Name", Kind: resource.FieldText, Required: true},
			{Name: "emailAddress", Label: "Email", Kind: resource.FieldEmail, Required: true},
		},
	}
}

func TestNew_RejectsBadInputs(t *testing.T) {
	_, err := New(resource.Descriptor{}, &fakeClient{})
	require.Error(t, err)

	_, err = New(adminDescriptor(), nil)
	require.Error(t, err)
}

func TestMount_PopulatesRows(t *testing.T) {
	rc := &fakeClient{items: []resource.Record{
		{"_id": "1", "firstName": "Ada"},
		{"_id": "2", "firstName": "Grace"},
	}}
	c, err := New(adminDescriptor(), rc)
	require.NoError(t, err)

	require.NoError(t, c.Mount(context.Background()))
	t.Cleanup(c.Unmount)

	page := c.Rows()
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
}

func TestMount_Twice(t *testing.T) {
	c, err := New(adminDescriptor(), &fakeClient{})
	require.NoError(t, err)

	require.NoError(t, c.Mount(context.Background()))
	t.Cleanup(c.Unmount)
	require.Error(t, c.Mount(context.Background()))
}

func TestMount_RefreshFailureLeavesSceneUsable(t *testing.T) {
	listErr := errors.New("backend down")
	rc := &fakeClient{listErr: listErr}
	c, err := New(adminDescriptor(), rc)
	require.NoError(t, err)

	require.ErrorIs(t, c.Mount(context.Background()), listErr)
	t.Cleanup(c.Unmount)

	// The scene is mounted; a later refresh can recover.
	rc.mu.Lock()
	rc.listErr = nil
	rc.items = []resource.Record{{"_id": "1", "firstName": "Ada"}}
	rc.mu.Unlock()

	require.NoError(t, c.Refresh())
	require.Equal(t, 1, c.Rows().Total)
}

func TestUnmount_IgnoresLateListCompletion(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	rc := &fakeClient{
		items:   []resource.Record{{"_id": "1", "firstName": "Ada"}},
		gate:    gate,
		entered: entered,
	}
	c, err := New(adminDescriptor(), rc)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Mount(context.Background()) }()

	<-entered
	c.Unmount()
	close(gate)
	require.NoError(t, <-done)

	require.Equal(t, 0, c.Rows().Total, "late list completion must not populate an unmounted scene")
}

func TestCreate_AppendsRowImmediately(t *testing.T) {
	rc := &fakeClient{nextID: "9"}
	c, err := New(adminDescriptor(), rc)
	require.NoError(t, err)
	require.NoError(t, c.Mount(context.Background()))
	t.Cleanup(c.Unmount)

	record, err := c.Create(context.Background(), resource.Record{
		"firstName":    "Ada",
		"emailAddress": "ada@example.com",
	})
	require.NoError(t, err)
	id, ok := record.ID("_id")
	require.True(t, ok)
	require.Equal(t, "9", id)

	page := c.Rows()
	require.Equal(t, 1, page.Total)
}

func TestDelete_RemovesRow(t *testing.T) {
	rc := &fakeClient{items: []resource.Record{{"_id": "1", "firstName": "Ada"}}}
	c, err := New(adminDescriptor(), rc)
	require.NoError(t, err)
	require.NoError(t, c.Mount(context.Background()))
	t.Cleanup(c.Unmount)

	err = c.Delete(context.Background(), resource.Record{"_id": "1"}, func(resource.Record) bool { return true })
	require.NoError(t, err)
	require.Equal(t, 0, c.Rows().Total)
}

func TestDelete_Declined(t *testing.T) {
	rc := &fakeClient{items: []resource.Record{{"_id": "1", "firstName": "Ada"}}}
	c, err := New(adminDescriptor(), rc)
	require.NoError(t, err)
	require.NoError(t, c.Mount(context.Background()))
	t.Cleanup(c.Unmount)

	err = c.Delete(context.Background(), resource.Record{"_id": "1"}, func(resource.Record) bool { return false })
	require.ErrorIs(t, err, workflow.ErrNotConfirmed)
	require.Equal(t, 1, c.Rows().Total)
}

func TestSearch_ResetsToFirstPage(t *testing.T) {
	rc := &fakeClient{items: []resource.Record{
		{"_id": "1", "firstName": "Ada"},
		{"_id": "2", "firstName": "Adele"},
		{"_id": "3", "firstName": "Grace"},
	}}
	c, err := New(adminDescriptor(), rc, WithPageSize(1))
	require.NoError(t, err)
	require.NoError(t, c.Mount(context.Background()))
	t.Cleanup(c.Unmount)

	c.SetPage(2)
	c.Search("ad")

	page := c.Rows()
	require.Equal(t, 0, page.Page)
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
}
