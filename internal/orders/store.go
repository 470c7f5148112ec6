package orders

import (
	"sync"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/metrics"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/pagination"
)

// FetchResult is a full backend list response: the only input allowed to
// rewrite pagination totals.
type FetchResult struct {
	Orders []Order         `json:"data"`
	Meta   pagination.Meta `json:"meta"`
}

// State is a read-side copy of the store. Orders keep arrival order; display
// ordering is the reader's job.
type State struct {
	BusinessID    string
	Orders        []Order
	Pagination    pagination.Meta
	Filters       Filters
	ActiveOrderID string
	Revision      uint64
}

// Store is the canonical in-memory order collection for the active business.
// Fetch results, push events and local mutations all funnel through it;
// last write per id wins. The mutex stands in for the original single
// consumer loop: mutations serialize, ordering between sources stays
// arrival-defined.
type Store struct {
	mu sync.Mutex

	businessID    string
	orders        []Order
	index         map[string]int
	paging        pagination.Meta
	filters       Filters
	activeOrderID string
	revision      uint64
	defaultLimit  int

	sync *metrics.SyncMetrics
}

// NewStore creates an empty store for the given business. A non-positive
// defaultLimit falls back to the standard page size.
func NewStore(businessID string, defaultLimit int, sync *metrics.SyncMetrics) *Store {
	limit := pagination.NormalizeLimit(defaultLimit)
	return &Store{
		businessID:   businessID,
		index:        map[string]int{},
		paging:       pagination.Meta{Page: 1, Limit: limit},
		filters:      DefaultFilters(),
		defaultLimit: limit,
		sync:         sync,
	}
}

// Snapshot returns a copy safe for readers.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]Order, len(s.orders))
	copy(orders, s.orders)
	return State{
		BusinessID:    s.businessID,
		Orders:        orders,
		Pagination:    s.paging,
		Filters:       s.filters,
		ActiveOrderID: s.activeOrderID,
		Revision:      s.revision,
	}
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// BusinessID returns the owning business of this store.
func (s *Store) BusinessID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.businessID
}

// ReplaceAll swaps the collection and pagination wholesale from a fetch
// response. No other operation may touch Total/TotalPages.
func (s *Store) ReplaceAll(result FetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]Order, 0, len(result.Orders))
	s.index = make(map[string]int, len(result.Orders))
	for _, order := range result.Orders {
		s.appendOrReplaceLocked(order)
	}
	s.paging = result.Meta
	if s.paging.Page < 1 {
		s.paging.Page = 1
	}
	s.dropStaleActiveLocked()
	s.bumpLocked("replace_all")
}

// UpsertOne inserts or overwrites a single order. Pagination counters are
// left alone; push traffic never recounts pages.
func (s *Store) UpsertOne(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendOrReplaceLocked(order)
	s.bumpLocked("upsert_one")
}

// UpsertByStatus reconciles one status lane: every held order with the given
// status is dropped, then the authoritative set is appended, deduplicated by
// id keeping the last occurrence. Running it twice with the same input is a
// no-op the second time.
func (s *Store) UpsertByStatus(incoming []Order, status enums.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Order, 0, len(s.orders)+len(incoming))
	for _, order := range s.orders {
		if order.Status != status {
			kept = append(kept, order)
		}
	}
	s.orders = kept
	s.reindexLocked()
	for _, order := range incoming {
		s.appendOrReplaceLocked(order)
	}
	s.dropStaleActiveLocked()
	s.bumpLocked("upsert_by_status")
}

// Remove drops the order with the given id. Missing ids are a normal
// outcome of push/local races, not an error.
func (s *Store) Remove(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[orderID]
	if !ok {
		return
	}
	s.orders = append(s.orders[:pos], s.orders[pos+1:]...)
	s.reindexLocked()
	s.dropStaleActiveLocked()
	s.bumpLocked("remove")
}

// SetFilters applies a partial filter update and resets the page to 1: a
// filter change invalidates what the current page means.
func (s *Store) SetFilters(patch FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = s.filters.applied(patch)
	s.paging.Page = 1
	s.bumpLocked("set_filters")
}

// SetPage moves to the given page.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paging.Page = pagination.NormalizePage(page)
	s.bumpLocked("set_page")
}

// SetLimit changes the page size and resets the page to 1.
func (s *Store) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paging.Limit = pagination.NormalizeLimit(limit)
	s.paging.Page = 1
	s.bumpLocked("set_limit")
}

// ResetFilters restores default filters and pagination in one step.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = DefaultFilters()
	s.paging = pagination.Meta{Page: 1, Limit: s.paging.Limit}
	if s.paging.Limit <= 0 {
		s.paging.Limit = s.defaultLimit
	}
	s.bumpLocked("reset_filters")
}

// SetActiveOrder points the detail view at an order by id. Selecting an id
// the store does not hold clears the pointer.
func (s *Store) SetActiveOrder(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[orderID]; !ok {
		s.activeOrderID = ""
	} else {
		s.activeOrderID = orderID
	}
	s.bumpLocked("set_active_order")
}

// ActiveOrder resolves the weak active-order reference.
func (s *Store) ActiveOrder() (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeOrderID == "" {
		return Order{}, false
	}
	pos, ok := s.index[s.activeOrderID]
	if !ok {
		return Order{}, false
	}
	return s.orders[pos], true
}

// Get returns the order with the given id if held.
func (s *Store) Get(orderID string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[orderID]
	if !ok {
		return Order{}, false
	}
	return s.orders[pos], true
}

// Filters returns the active filter state.
func (s *Store) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Pagination returns the current pagination state.
func (s *Store) Pagination() pagination.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paging
}

// Reset empties the store for a business switch or logout. Filters and
// pagination return to defaults; nothing carries over.
func (s *Store) Reset(businessID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.businessID = businessID
	s.orders = nil
	s.index = map[string]int{}
	s.paging = pagination.Meta{Page: 1, Limit: s.defaultLimit}
	s.filters = DefaultFilters()
	s.activeOrderID = ""
	s.bumpLocked("reset")
}

func (s *Store) appendOrReplaceLocked(order Order) {
	if pos, ok := s.index[order.ID]; ok {
		s.orders[pos] = order
		return
	}
	s.index[order.ID] = len(s.orders)
	s.orders = append(s.orders, order)
}

func (s *Store) reindexLocked() {
	s.index = make(map[string]int, len(s.orders))
	for pos, order := range s.orders {
		s.index[order.ID] = pos
	}
}

func (s *Store) dropStaleActiveLocked() {
	if s.activeOrderID == "" {
		return
	}
	if _, ok := s.index[s.activeOrderID]; !ok {
		s.activeOrderID = ""
	}
}

func (s *Store) bumpLocked(operation string) {
	s.revision++
	s.sync.IncMergeApplied(operation)
	s.sync.SetStoreSize(len(s.orders))
}
