package cart

import (
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MapOrderToCart projects a backend order's item groups into cart shape for
// re-editing. Per-option-group selections are flattened into one selected
// option list; group order inside an item is not preserved, only the union.
// Item totals come verbatim from the order: the order is historical and
// catalog prices may have moved since it was placed. An order with no item
// groups maps to an empty sequence.
func MapOrderToCart(order orders.Order) []Group {
	groups := make([]Group, 0, len(order.ItemGroups))
	for _, itemGroup := range order.ItemGroups {
		mapped := Group{
			ID:    uuid.NewString(),
			Name:  itemGroup.Name,
			Items: make([]Item, 0, len(itemGroup.Items)),
		}
		for _, orderItem := range itemGroup.Items {
			mapped.Items = append(mapped.Items, mapItem(orderItem))
		}
		groups = append(groups, mapped)
	}
	return groups
}

func mapItem(orderItem orders.OrderItem) Item {
	options := make([]SelectedOption, 0)
	deltas := decimal.Zero
	for _, selection := range orderItem.Selections {
		for _, option := range selection.Options {
			options = append(options, SelectedOption{
				ID:         option.ID,
				Name:       option.Name,
				PriceDelta: option.PriceDelta,
			})
			deltas = deltas.Add(option.PriceDelta)
		}
	}

	quantity := orderItem.Quantity
	if quantity < 1 {
		quantity = 1
	}

	// Back-derive a unit price consistent with the stored total so later
	// quantity edits recompute from the historical price, not the catalog.
	unit := orderItem.Total.
		Div(decimal.NewFromInt(int64(quantity))).
		Sub(deltas)

	return Item{
		ID:        uuid.NewString(),
		ProductID: orderItem.ProductID,
		Name:      orderItem.Name,
		UnitPrice: unit,
		Quantity:  quantity,
		Options:   options,
		Total:     orderItem.Total,
	}
}
