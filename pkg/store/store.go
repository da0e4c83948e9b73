package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

const defaultPageSize = 10

// Lister is the slice of the resource client the store depends on.
type Lister interface {
	List(ctx context.Context) ([]resource.Record, error)
}

// State is a snapshot of the collection's externally visible state.
type State struct {
	Items      []resource.Record
	Loading    bool
	Err        error
	SearchText string
	Page       int
	PageSize   int
}

// Option customises a Store.
type Option func(*Store)

// WithLogger injects a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPageSize overrides the initial page size.
func WithPageSize(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// Store holds the in-memory collection for one resource: the items in server
// order, the loading/error state, and the search/pagination inputs the grid
// view derives from. Mutation application is serialized, and every completed
// request carries a sequence number so a late-arriving refresh can never
// overwrite a newer local patch.
type Store struct {
	mu sync.Mutex

	desc   resource.Descriptor
	client Lister
	log    *zap.Logger

	items      []resource.Record
	loading    bool
	err        error
	searchText string
	page       int
	pageSize   int

	seq     uint64 // next sequence to hand out
	applied uint64 // sequence of the last applied outcome
	closed  bool
}

// New constructs a Store for one resource.
func New(desc resource.Descriptor, client Lister, options ...Option) *Store {
	s := &Store{
		desc:     desc,
		client:   client,
		log:      zap.NewNop(),
		pageSize: defaultPageSize,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Refresh replaces the collection with the server's view. On failure the
// previous items stay visible (stale beats blank) and only the error changes.
// Loading always clears, success or not.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	items, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.closed {
		return nil
	}
	if seq <= s.applied {
		s.log.Debug("discarding stale refresh response",
			zap.String("resource", s.desc.Name),
			zap.Uint64("seq", seq),
			zap.Uint64("applied", s.applied))
		return nil
	}
	s.applied = seq

	if err != nil {
		s.err = err
		return err
	}
	s.items = items
	s.err = nil
	return nil
}

// ApplyCreated appends the server-assigned record to the tail, matching the
// backend's most-recent-last ordering. A later Refresh reconciles.
func (s *Store) ApplyCreated(record resource.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.items = append(s.items, record)
	s.bumpLocked()
}

// ApplyUpdated replaces the item sharing the record's primary key. When no
// match exists the record is appended instead and a reconciliation warning is
// logged; the caller's opportunistic refresh sorts out the truth.
func (s *Store) ApplyUpdated(record resource.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	id, ok := record.ID(s.desc.PrimaryKey)
	if !ok {
		s.log.Warn("updated record has no primary key; dropping patch",
			zap.String("resource", s.desc.Name))
		return
	}
	for i, item := range s.items {
		if existing, ok := item.ID(s.desc.PrimaryKey); ok && existing == id {
			s.items[i] = record
			s.bumpLocked()
			return
		}
	}
	s.log.Warn("updated record not in local collection; appending",
		zap.String("resource", s.desc.Name),
		zap.String("id", id))
	s.items = append(s.items, record)
	s.bumpLocked()
}

// ApplyDeleted removes the item by primary key. Absent ids are a no-op, which
// is what makes a double delete invisible to the user.
func (s *Store) ApplyDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for i, item := range s.items {
		if existing, ok := item.ID(s.desc.PrimaryKey); ok && existing == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.bumpLocked()
			return
		}
	}
}

// bumpLocked marks a local patch as the newest applied outcome so in-flight
// list responses started earlier get discarded on arrival.
func (s *Store) bumpLocked() {
	s.seq++
	s.applied = s.seq
}

// SetSearchText updates the filter and resets the page: a paginated search
// must never land on an out-of-range page implicitly.
func (s *Store) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchText = text
	s.page = 0
}

// SetPage moves to the given zero-based page.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page >= 0 {
		s.page = page
	}
}

// SetPageSize changes the page size and resets the page.
func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size > 0 {
		s.pageSize = size
		s.page = 0
	}
}

// Rows derives the current grid page from the collection and the search and
// pagination state.
func (s *Store) Rows() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View(s.items, s.desc.SearchFields(), s.searchText, s.page, s.pageSize)
}

// Items returns a copy of the full collection in server order.
func (s *Store) Items() []resource.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]resource.Record{}, s.items...)
}

// SearchFields exposes the descriptor's searchable field set for callers that
// filter with per-request queries, like the grid HTTP component.
func (s *Store) SearchFields() []string {
	return s.desc.SearchFields()
}

// Snapshot returns the externally visible state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Items:      append([]resource.Record{}, s.items...),
		Loading:    s.loading,
		Err:        s.err,
		SearchText: s.searchText,
		Page:       s.page,
		PageSize:   s.pageSize,
	}
}

// Close detaches the store from its scene. Late completions of in-flight
// requests become no-ops instead of mutating state after unmount.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
