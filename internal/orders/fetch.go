package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/metrics"
)

// ListQuery is the request shape the backend list endpoint expects.
type ListQuery struct {
	BusinessID string
	Page       int
	Limit      int
	Filters    Filters
}

// Lister issues the filtered/paginated order fetch.
type Lister interface {
	ListOrders(ctx context.Context, query ListQuery) (FetchResult, error)
}

// Coordinator owns the fetch lifecycle: it builds requests from the store's
// current filters and pagination, cancels superseded in-flight requests, and
// feeds successful results back into the store. Only the latest request is
// ever allowed to win; a slow older response is discarded, not merged.
type Coordinator struct {
	store  *Store
	client Lister
	logg   *logger.Logger
	sync   *metrics.SyncMetrics

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewCoordinator builds a fetch coordinator bound to one store.
func NewCoordinator(store *Store, client Lister, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Coordinator, error) {
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if client == nil {
		return nil, fmt.Errorf("backend lister required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Coordinator{
		store:  store,
		client: client,
		logg:   logg,
		sync:   syncMetrics,
	}, nil
}

// Fetch issues a list request for the store's current filter/page state,
// superseding any fetch still in flight. Cancellation of the superseded
// request is swallowed; only genuine failures of the latest request are
// returned, and those leave the store at its last-known-good contents.
func (c *Coordinator) Fetch(ctx context.Context) error {
	fetchCtx, mySeq := c.begin(ctx)

	paging := c.store.Pagination()
	query := ListQuery{
		BusinessID: c.store.BusinessID(),
		Page:       paging.Page,
		Limit:      paging.Limit,
		Filters:    c.store.Filters(),
	}

	start := time.Now()
	result, err := c.client.ListOrders(fetchCtx, query)

	if err != nil {
		if !c.stillCurrent(mySeq) {
			// A newer fetch owns the store now; whatever happened here is moot.
			c.sync.IncStaleFetchDiscarded()
			return nil
		}
		if errors.Is(err, context.Canceled) || pkgerrors.IsCancelled(err) {
			return nil
		}
		c.sync.IncFetchFailure()
		c.logg.Error(ctx, "order fetch failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "fetching orders")
	}

	if !c.commit(mySeq, result) {
		c.sync.IncStaleFetchDiscarded()
		return nil
	}
	c.sync.ObserveFetchDuration(time.Since(start))
	return nil
}

// commit installs a fetch result if and only if no newer fetch has begun.
// The sequence check and the store write share one critical section; checked
// separately, a superseded fetch could pass the check and still overwrite a
// newer result.
func (c *Coordinator) commit(seq uint64, result FetchResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq != seq {
		return false
	}
	c.store.ReplaceAll(result)
	return true
}

// begin registers a new fetch attempt, cancelling the previous one.
func (c *Coordinator) begin(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	return fetchCtx, c.seq
}

func (c *Coordinator) stillCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq == seq
}

// Stop cancels any in-flight fetch. Used at teardown.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
