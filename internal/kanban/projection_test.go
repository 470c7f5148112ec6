package kanban

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
)

func boardOrder(id string, status enums.OrderStatus, createdAt time.Time) orders.Order {
	return orders.Order{
		ID:              id,
		BusinessID:      "biz-1",
		Status:          status,
		ConsumptionType: enums.ConsumptionTypeDineIn,
		CreatedAt:       createdAt,
	}
}

func boardState(held ...orders.Order) orders.State {
	return orders.State{
		BusinessID: "biz-1",
		Orders:     held,
		Filters:    orders.DefaultFilters(),
	}
}

func TestLanesBucketInFixedOrder(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lanes := Lanes(boardState(
		boardOrder("d1", enums.OrderStatusDone, base),
		boardOrder("c1", enums.OrderStatusCreated, base),
	))

	require.Len(t, lanes, len(enums.OrderStatuses()))
	for pos, status := range enums.OrderStatuses() {
		assert.Equal(t, status, lanes[pos].Status)
	}

	assert.Len(t, lanes[0].Orders, 1, "created lane")
	assert.Equal(t, "c1", lanes[0].Orders[0].ID)
}

func TestLanesSortOldestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lanes := Lanes(boardState(
		boardOrder("late", enums.OrderStatusCreated, base.Add(time.Hour)),
		boardOrder("early", enums.OrderStatusCreated, base),
	))

	require.Len(t, lanes[0].Orders, 2)
	assert.Equal(t, "early", lanes[0].Orders[0].ID)
	assert.Equal(t, "late", lanes[0].Orders[1].ID)
}

func TestLanesAreNeverNil(t *testing.T) {
	t.Parallel()

	for _, lane := range Lanes(boardState()) {
		assert.NotNil(t, lane.Orders)
		assert.Empty(t, lane.Orders)
	}
}

func TestLanesApplyDisplayFilters(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	state := boardState(
		boardOrder("dine", enums.OrderStatusCreated, base),
		boardOrder("delivery", enums.OrderStatusCreated, base),
	)
	state.Orders[1].ConsumptionType = enums.ConsumptionTypeDelivery
	state.Filters.ConsumptionType = enums.ConsumptionTypeDelivery

	lanes := Lanes(state)
	require.Len(t, lanes[0].Orders, 1)
	assert.Equal(t, "delivery", lanes[0].Orders[0].ID)
}

func TestListHonorsSortDirection(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	state := boardState(
		boardOrder("early", enums.OrderStatusCreated, base),
		boardOrder("late", enums.OrderStatusDone, base.Add(time.Hour)),
	)

	list := List(state)
	require.Len(t, list, 2)
	assert.Equal(t, "late", list[0].ID, "default sort is newest first")

	state.Filters.Sort = enums.SortDirectionAsc
	list = List(state)
	assert.Equal(t, "early", list[0].ID)
}
