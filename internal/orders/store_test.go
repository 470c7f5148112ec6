package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/pagination"
)

func testOrder(id string, status enums.OrderStatus) Order {
	return Order{
		ID:              id,
		BusinessID:      "biz-1",
		Status:          status,
		ConsumptionType: enums.ConsumptionTypeDineIn,
		CustomerName:    "Ana",
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Total:           decimal.NewFromInt(10),
	}
}

func TestReplaceAllSwapsCollectionAndTotals(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.UpsertOne(testOrder("stale", enums.OrderStatusCreated))

	store.ReplaceAll(FetchResult{
		Orders: []Order{
			testOrder("a", enums.OrderStatusCreated),
			testOrder("b", enums.OrderStatusDone),
		},
		Meta: pagination.Meta{Page: 2, Limit: 25, Total: 60, TotalPages: 3},
	})

	state := store.Snapshot()
	require.Len(t, state.Orders, 2)
	assert.Equal(t, "a", state.Orders[0].ID)
	assert.Equal(t, 60, state.Pagination.Total)
	assert.Equal(t, 2, state.Pagination.Page)

	_, ok := store.Get("stale")
	assert.False(t, ok)
}

func TestUpsertOneKeepsCollectionUniqueByID(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	order := testOrder("a", enums.OrderStatusCreated)
	store.UpsertOne(order)

	updated := order
	updated.Status = enums.OrderStatusInProgress
	updated.CustomerName = "Bruno"
	store.UpsertOne(updated)

	state := store.Snapshot()
	require.Len(t, state.Orders, 1)
	assert.Equal(t, enums.OrderStatusInProgress, state.Orders[0].Status)
	assert.Equal(t, "Bruno", state.Orders[0].CustomerName)
}

func TestUpsertOneNeverTouchesPaginationTotals(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.ReplaceAll(FetchResult{
		Orders: []Order{testOrder("a", enums.OrderStatusCreated)},
		Meta:   pagination.Meta{Page: 1, Limit: 25, Total: 1, TotalPages: 1},
	})

	store.UpsertOne(testOrder("b", enums.OrderStatusCreated))
	store.Remove("a")

	meta := store.Pagination()
	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestUpsertByStatusReconcilesLane(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.ReplaceAll(FetchResult{
		Orders: []Order{
			testOrder("c1", enums.OrderStatusCreated),
			testOrder("c2", enums.OrderStatusCreated),
			testOrder("d1", enums.OrderStatusDone),
		},
		Meta: pagination.Meta{Page: 1, Limit: 25, Total: 3, TotalPages: 1},
	})

	// c2 left the lane server-side; c3 is new.
	store.UpsertByStatus([]Order{
		testOrder("c1", enums.OrderStatusCreated),
		testOrder("c3", enums.OrderStatusCreated),
	}, enums.OrderStatusCreated)

	state := store.Snapshot()
	ids := map[string]bool{}
	for _, order := range state.Orders {
		ids[order.ID] = true
	}
	assert.True(t, ids["c1"])
	assert.True(t, ids["c3"])
	assert.True(t, ids["d1"])
	assert.False(t, ids["c2"])
	assert.Len(t, state.Orders, 3)
}

func TestUpsertByStatusIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	lane := []Order{
		testOrder("c1", enums.OrderStatusCreated),
		testOrder("c2", enums.OrderStatusCreated),
	}

	store.UpsertByStatus(lane, enums.OrderStatusCreated)
	first := store.Snapshot()
	store.UpsertByStatus(lane, enums.OrderStatusCreated)
	second := store.Snapshot()

	require.Len(t, second.Orders, len(first.Orders))
	for i := range first.Orders {
		assert.Equal(t, first.Orders[i].ID, second.Orders[i].ID)
	}
}

func TestUpsertByStatusDedupesPayload(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	dup := testOrder("c1", enums.OrderStatusCreated)
	last := dup
	last.CustomerName = "Carla"

	store.UpsertByStatus([]Order{dup, last}, enums.OrderStatusCreated)

	state := store.Snapshot()
	require.Len(t, state.Orders, 1)
	assert.Equal(t, "Carla", state.Orders[0].CustomerName)
}

func TestRemoveMissingOrderIsNoOp(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.UpsertOne(testOrder("a", enums.OrderStatusCreated))
	before := store.Snapshot()

	store.Remove(uuid.NewString())

	after := store.Snapshot()
	assert.Equal(t, len(before.Orders), len(after.Orders))
}

func TestRemoveClearsActiveSelection(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.UpsertOne(testOrder("a", enums.OrderStatusCreated))
	store.SetActiveOrder("a")

	store.Remove("a")

	_, ok := store.ActiveOrder()
	assert.False(t, ok)
	assert.Empty(t, store.Snapshot().ActiveOrderID)
}

func TestSetFiltersResetsPage(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.SetPage(4)
	require.Equal(t, 4, store.Pagination().Page)

	status := enums.OrderStatusDone
	store.SetFilters(FilterPatch{Status: &status})

	assert.Equal(t, 1, store.Pagination().Page)
	assert.Equal(t, enums.OrderStatusDone, store.Filters().Status)
}

func TestSetLimitResetsPage(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.SetPage(3)

	store.SetLimit(50)

	meta := store.Pagination()
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 50, meta.Limit)
}

func TestSetLimitClampsToBounds(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)

	store.SetLimit(0)
	assert.Equal(t, pagination.DefaultLimit, store.Pagination().Limit)

	store.SetLimit(10_000)
	assert.Equal(t, pagination.MaxLimit, store.Pagination().Limit)
}

func TestResetFiltersRestoresDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	status := enums.OrderStatusCanceled
	name := "ana"
	store.SetFilters(FilterPatch{Status: &status, CustomerName: &name})
	store.SetPage(7)

	store.ResetFilters()

	assert.Equal(t, DefaultFilters(), store.Filters())
	assert.Equal(t, 1, store.Pagination().Page)
}

func TestSetActiveOrderRequiresHeldOrder(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.UpsertOne(testOrder("a", enums.OrderStatusCreated))

	store.SetActiveOrder("a")
	order, ok := store.ActiveOrder()
	require.True(t, ok)
	assert.Equal(t, "a", order.ID)

	store.SetActiveOrder("missing")
	_, ok = store.ActiveOrder()
	assert.False(t, ok)
}

func TestResetClearsEverythingForNewBusiness(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	store.UpsertOne(testOrder("a", enums.OrderStatusCreated))
	status := enums.OrderStatusDone
	store.SetFilters(FilterPatch{Status: &status})
	store.SetActiveOrder("a")

	store.Reset("biz-2")

	state := store.Snapshot()
	assert.Equal(t, "biz-2", state.BusinessID)
	assert.Empty(t, state.Orders)
	assert.Empty(t, state.ActiveOrderID)
	assert.Equal(t, DefaultFilters(), state.Filters)
	assert.Equal(t, 1, state.Pagination.Page)
}

func TestRevisionAdvancesOnEveryMutation(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 0, nil)
	before := store.Revision()

	store.UpsertOne(testOrder("a", enums.OrderStatusCreated))
	store.Remove("a")
	store.ResetFilters()

	assert.Greater(t, store.Revision(), before)
}

func TestConfiguredDefaultLimitSurvivesReset(t *testing.T) {
	t.Parallel()

	store := NewStore("biz-1", 50, nil)
	assert.Equal(t, 50, store.Pagination().Limit)

	store.SetLimit(10)
	store.Reset("biz-2")
	assert.Equal(t, 50, store.Pagination().Limit)
}
