package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

type fakeLister struct {
	mu       sync.Mutex
	results  [][]resource.Record
	errs     []error
	calls    int
	gate     chan struct{} // when set, the call with index gateCall blocks on it
	gateCall int
	entered  chan struct{} // closed when the gated call begins
}

func (f *fakeLister) List(ctx context.Context) ([]resource.Record, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.mu.Unlock()

	if f.gate != nil && call == f.gateCall {
		if f.entered != nil {
			close(f.entered)
		}
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var items []resource.Record
	if call < len(f.results) {
		items = f.results[call]
	}
	var err error
	if call < len(f.errs) {
		err = f.errs[call]
	}
	return items, err
}

func testDescriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:       "admin",
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints("admin"),
		Schema: resource.FieldSchema{
			{Name: "firstName", Kind: resource.FieldText, Required: true},
			{Name: "role", Kind: resource.FieldText},
		},
	}
}

func TestRefresh_ReplacesCollection(t *testing.T) {
	lister := &fakeLister{results: [][]resource.Record{{
		{"_id": "1", "firstName": "Ada"},
		{"_id": "2", "firstName": "Grace"},
	}}}
	s := New(testDescriptor(), lister)

	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	require.False(t, snap.Loading)
	require.NoError(t, snap.Err)
}

func TestRefresh_FailureKeepsStaleItemsVisible(t *testing.T) {
	listErr := errors.New("backend down")
	lister := &fakeLister{
		results: [][]resource.Record{{{"_id": "1", "firstName": "Ada"}}, nil},
		errs:    []error{nil, listErr},
	}
	s := New(testDescriptor(), lister)

	require.NoError(t, s.Refresh(context.Background()))
	require.ErrorIs(t, s.Refresh(context.Background()), listErr)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1, "previous items must survive a failed refresh")
	require.False(t, snap.Loading, "loading must clear on failure")
	require.ErrorIs(t, snap.Err, listErr)
}

func TestRefresh_SuccessClearsPreviousError(t *testing.T) {
	lister := &fakeLister{
		results: [][]resource.Record{nil, {{"_id": "1", "firstName": "Ada"}}},
		errs:    []error{errors.New("first try failed"), nil},
	}
	s := New(testDescriptor(), lister)

	require.Error(t, s.Refresh(context.Background()))
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.Snapshot().Err)
}

func TestRefresh_StaleResponseDiscardedAfterLocalPatch(t *testing.T) {
	full := []resource.Record{
		{"_id": "1", "firstName": "Ada"},
		{"_id": "2", "firstName": "Grace"},
	}
	gate := make(chan struct{})
	entered := make(chan struct{})
	lister := &fakeLister{
		results:  [][]resource.Record{full, full},
		gate:     gate,
		gateCall: 1,
		entered:  entered,
	}
	s := New(testDescriptor(), lister)
	require.NoError(t, s.Refresh(context.Background()))

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()

	// The delete lands while the second list request is still in flight.
	<-entered
	s.ApplyDeleted("2")

	close(gate)
	require.NoError(t, <-done)

	items := s.Items()
	require.Len(t, items, 1, "stale list response must not resurrect the deleted record")
	require.Equal(t, "1", items[0]["_id"])
}

func TestApplyCreated_AppendsToTail(t *testing.T) {
	lister := &fakeLister{results: [][]resource.Record{{{"_id": "1", "firstName": "Ada"}}}}
	s := New(testDescriptor(), lister)
	require.NoError(t, s.Refresh(context.Background()))

	s.ApplyCreated(resource.Record{"_id": "9", "firstName": "Grace"})

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, "9", items[1]["_id"])
}

func TestApplyUpdated_ReplacesInPlace(t *testing.T) {
	lister := &fakeLister{results: [][]resource.Record{{
		{"_id": "1", "firstName": "Ada"},
		{"_id": "2", "firstName": "Grace"},
		{"_id": "3", "firstName": "Alan"},
	}}}
	s := New(testDescriptor(), lister)
	require.NoError(t, s.Refresh(context.Background()))

	s.ApplyUpdated(resource.Record{"_id": "2", "firstName": "Gracie"})

	items := s.Items()
	require.Len(t, items, 3)
	require.Equal(t, "Gracie", items[1]["firstName"], "update must not reorder the collection")
}

func TestApplyUpdated_UnknownRecordAppends(t *testing.T) {
	s := New(testDescriptor(), &fakeLister{})
	s.ApplyUpdated(resource.Record{"_id": "7", "firstName": "Eve"})
	require.Len(t, s.Items(), 1)
}

func TestApplyDeleted_AbsentIDIsNoOp(t *testing.T) {
	lister := &fakeLister{results: [][]resource.Record{{{"_id": "1", "firstName": "Ada"}}}}
	s := New(testDescriptor(), lister)
	require.NoError(t, s.Refresh(context.Background()))

	s.ApplyDeleted("1")
	s.ApplyDeleted("1")

	require.Len(t, s.Items(), 0)
}

func TestSetSearchText_ResetsPage(t *testing.T) {
	s := New(testDescriptor(), &fakeLister{})
	s.SetPage(3)
	s.SetSearchText("ada")

	snap := s.Snapshot()
	require.Equal(t, 0, snap.Page)
	require.Equal(t, "ada", snap.SearchText)
}

func TestSetPageSize_ResetsPage(t *testing.T) {
	s := New(testDescriptor(), &fakeLister{}, WithPageSize(5))
	s.SetPage(2)
	s.SetPageSize(25)

	snap := s.Snapshot()
	require.Equal(t, 0, snap.Page)
	require.Equal(t, 25, snap.PageSize)
}

func TestRows_AppliesSearchAndPagination(t *testing.T) {
	lister := &fakeLister{results: [][]resource.Record{{
		{"_id": "1", "firstName": "Ada"},
		{"_id": "2", "firstName": "Adele"},
		{"_id": "3", "firstName": "Grace"},
	}}}
	s := New(testDescriptor(), lister, WithPageSize(1))
	require.NoError(t, s.Refresh(context.Background()))

	s.SetSearchText("ad")
	s.SetPage(1)

	page := s.Rows()
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "2", page.Items[0]["_id"])
}

func TestClose_LateCompletionsAreIgnored(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	lister := &fakeLister{
		results: [][]resource.Record{{{"_id": "1", "firstName": "Ada"}}},
		gate:    gate,
		entered: entered,
	}
	s := New(testDescriptor(), lister)

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()

	<-entered
	s.Close()
	close(gate)
	require.NoError(t, <-done)

	require.Len(t, s.Items(), 0, "a closed store must not accept a late list response")

	s.ApplyCreated(resource.Record{"_id": "2"})
	require.Len(t, s.Items(), 0, "a closed store must not accept patches")
}
