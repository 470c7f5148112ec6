package kanban

import (
	"sort"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
)

// Lane is one status column of the board.
type Lane struct {
	Status enums.OrderStatus `json:"status"`
	Orders []orders.Order    `json:"orders"`
}

// Lanes buckets a store snapshot by status in fixed lane order, each lane
// sorted oldest first so the kitchen works the queue top down. The store does
// not sort; ordering is imposed here at read time.
func Lanes(state orders.State) []Lane {
	byStatus := make(map[enums.OrderStatus][]orders.Order)
	for _, order := range state.Orders {
		if !state.Filters.Matches(order) {
			continue
		}
		byStatus[order.Status] = append(byStatus[order.Status], order)
	}

	lanes := make([]Lane, 0, len(enums.OrderStatuses()))
	for _, status := range enums.OrderStatuses() {
		bucket := byStatus[status]
		if bucket == nil {
			bucket = []orders.Order{}
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].CreatedAt.Before(bucket[j].CreatedAt)
		})
		lanes = append(lanes, Lane{Status: status, Orders: bucket})
	}
	return lanes
}

// List flattens a store snapshot for the list view, honoring the active sort
// direction and re-applying display filters so pushed orders stay consistent
// with the last fetch.
func List(state orders.State) []orders.Order {
	filtered := make([]orders.Order, 0, len(state.Orders))
	for _, order := range state.Orders {
		if state.Filters.Matches(order) {
			filtered = append(filtered, order)
		}
	}

	asc := state.Filters.Sort == enums.SortDirectionAsc
	sort.SliceStable(filtered, func(i, j int) bool {
		if asc {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered
}
