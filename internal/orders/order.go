package orders

import (
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderItemOption is a denormalized option choice stored on an order item.
type OrderItemOption struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OptionSelection groups the chosen options of one option group.
type OptionSelection struct {
	GroupID   string            `json:"group_id"`
	GroupName string            `json:"group_name"`
	Options   []OrderItemOption `json:"options"`
}

// OrderItem is a server-assigned line of an order. Total is the historical
// price captured at submission; catalog prices may have moved since.
type OrderItem struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"product_id"`
	Name       string            `json:"name"`
	Quantity   int               `json:"quantity"`
	Selections []OptionSelection `json:"selections"`
	Total      decimal.Decimal   `json:"total"`
	Ready      bool              `json:"ready"`
}

// ItemGroup is an ordered batch of order items (a course or send-batch).
// Sequence position is significant for kitchen display.
type ItemGroup struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Items []OrderItem `json:"items"`
}

// Order is the backend-owned aggregate the store synchronizes.
type Order struct {
	ID              string                `json:"id"`
	BusinessID      string                `json:"business_id"`
	Status          enums.OrderStatus     `json:"status"`
	ConsumptionType enums.ConsumptionType `json:"consumption_type"`
	CustomerName    string                `json:"customer_name"`
	Paid            bool                  `json:"paid"`
	CreatedAt       time.Time             `json:"created_at"`
	Total           decimal.Decimal       `json:"total"`
	ItemGroups      []ItemGroup           `json:"item_groups"`
}
