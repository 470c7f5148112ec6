package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/pagination"
)

type stubLister struct {
	mu      sync.Mutex
	calls   []ListQuery
	results []func(ctx context.Context, query ListQuery) (FetchResult, error)
}

func (s *stubLister) ListOrders(ctx context.Context, query ListQuery) (FetchResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	call := len(s.calls) - 1
	var fn func(ctx context.Context, query ListQuery) (FetchResult, error)
	if call < len(s.results) {
		fn = s.results[call]
	}
	s.mu.Unlock()

	if fn == nil {
		return FetchResult{}, nil
	}
	return fn(ctx, query)
}

func testCoordinator(t *testing.T, store *Store, lister Lister) *Coordinator {
	t.Helper()
	coordinator, err := NewCoordinator(store, lister, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)
	return coordinator
}

func TestFetchFeedsStore(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	lister := &stubLister{results: []func(ctx context.Context, query ListQuery) (FetchResult, error){
		func(ctx context.Context, query ListQuery) (FetchResult, error) {
			return FetchResult{
				Orders: []Order{testOrder("a", enums.OrderStatusCreated)},
				Meta:   pagination.Meta{Page: query.Page, Limit: query.Limit, Total: 1, TotalPages: 1},
			}, nil
		},
	}}
	coordinator := testCoordinator(t, store, lister)

	require.NoError(t, coordinator.Fetch(context.Background()))

	state := store.Snapshot()
	require.Len(t, state.Orders, 1)
	assert.Equal(t, 1, state.Pagination.Total)

	require.Len(t, lister.calls, 1)
	assert.Equal(t, "biz-1", lister.calls[0].BusinessID)
	assert.Equal(t, 1, lister.calls[0].Page)
	assert.Equal(t, pagination.DefaultLimit, lister.calls[0].Limit)
}

func TestFetchQueryCarriesCurrentFiltersAndPage(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	status := enums.OrderStatusDone
	store.SetFilters(FilterPatch{Status: &status})
	store.SetPage(3)

	lister := &stubLister{}
	coordinator := testCoordinator(t, store, lister)
	require.NoError(t, coordinator.Fetch(context.Background()))

	require.Len(t, lister.calls, 1)
	assert.Equal(t, 3, lister.calls[0].Page)
	assert.Equal(t, enums.OrderStatusDone, lister.calls[0].Filters.Status)
}

func TestSupersededFetchIsDiscarded(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	lister := &stubLister{results: []func(ctx context.Context, query ListQuery) (FetchResult, error){
		// Fetch A: slow, resolves after B already replaced the store.
		func(ctx context.Context, query ListQuery) (FetchResult, error) {
			close(firstStarted)
			<-releaseFirst
			return FetchResult{
				Orders: []Order{testOrder("stale", enums.OrderStatusCreated)},
				Meta:   pagination.Meta{Page: 1, Limit: 25, Total: 99, TotalPages: 4},
			}, nil
		},
		// Fetch B: fast.
		func(ctx context.Context, query ListQuery) (FetchResult, error) {
			return FetchResult{
				Orders: []Order{testOrder("fresh", enums.OrderStatusCreated)},
				Meta:   pagination.Meta{Page: 1, Limit: 25, Total: 1, TotalPages: 1},
			}, nil
		},
	}}
	coordinator := testCoordinator(t, store, lister)

	done := make(chan error, 1)
	go func() {
		done <- coordinator.Fetch(context.Background())
	}()
	<-firstStarted

	require.NoError(t, coordinator.Fetch(context.Background()))
	close(releaseFirst)
	require.NoError(t, <-done)

	state := store.Snapshot()
	require.Len(t, state.Orders, 1)
	assert.Equal(t, "fresh", state.Orders[0].ID)
	assert.Equal(t, 1, state.Pagination.Total)
}

func TestCancelledFetchIsNotAnError(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	lister := &stubLister{results: []func(ctx context.Context, query ListQuery) (FetchResult, error){
		func(ctx context.Context, query ListQuery) (FetchResult, error) {
			return FetchResult{}, context.Canceled
		},
	}}
	coordinator := testCoordinator(t, store, lister)

	assert.NoError(t, coordinator.Fetch(context.Background()))
	assert.Empty(t, store.Snapshot().Orders)
}

func TestFailedFetchKeepsLastKnownGoodState(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.ReplaceAll(FetchResult{
		Orders: []Order{testOrder("a", enums.OrderStatusCreated)},
		Meta:   pagination.Meta{Page: 1, Limit: 25, Total: 1, TotalPages: 1},
	})

	lister := &stubLister{results: []func(ctx context.Context, query ListQuery) (FetchResult, error){
		func(ctx context.Context, query ListQuery) (FetchResult, error) {
			return FetchResult{}, errors.New("backend down")
		},
	}}
	coordinator := testCoordinator(t, store, lister)

	err := coordinator.Fetch(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNetwork, typed.Code())

	state := store.Snapshot()
	require.Len(t, state.Orders, 1)
	assert.Equal(t, "a", state.Orders[0].ID)
}

func TestCommitRejectsSupersededSequence(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	coordinator := testCoordinator(t, store, &stubLister{})

	_, first := coordinator.begin(context.Background())
	_, _ = coordinator.begin(context.Background())

	stale := FetchResult{
		Orders: []Order{testOrder("stale", enums.OrderStatusCreated)},
		Meta:   pagination.Meta{Page: 1, Limit: 25, Total: 99, TotalPages: 4},
	}
	assert.False(t, coordinator.commit(first, stale))
	assert.Empty(t, store.Snapshot().Orders)

	_, latest := coordinator.begin(context.Background())
	fresh := FetchResult{
		Orders: []Order{testOrder("fresh", enums.OrderStatusCreated)},
		Meta:   pagination.Meta{Page: 1, Limit: 25, Total: 1, TotalPages: 1},
	}
	require.True(t, coordinator.commit(latest, fresh))

	state := store.Snapshot()
	require.Len(t, state.Orders, 1)
	assert.Equal(t, "fresh", state.Orders[0].ID)
}
