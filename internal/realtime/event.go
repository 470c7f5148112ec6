package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
)

// Event is one inbound push message, already decoded into the fields the
// store merge API needs.
type Event struct {
	Type    enums.RealtimeEventType
	Order   *orders.Order
	Orders  []orders.Order
	OrderID string
	Status  enums.OrderStatus
}

// envelope is the wire shape published on the business channel.
type envelope struct {
	Type    string         `json:"type"`
	Order   *orders.Order  `json:"order,omitempty"`
	Orders  []orders.Order `json:"orders,omitempty"`
	OrderID string         `json:"order_id,omitempty"`
	Status  string         `json:"status,omitempty"`
}

// DecodeEvent parses a wire payload into a typed event.
func DecodeEvent(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, fmt.Errorf("decode realtime envelope: %w", err)
	}

	eventType, err := enums.ParseRealtimeEventType(env.Type)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		Type:    eventType,
		Order:   env.Order,
		Orders:  env.Orders,
		OrderID: env.OrderID,
	}

	switch eventType {
	case enums.EventOrderCreated, enums.EventOrderUpdated:
		if env.Order == nil {
			return Event{}, fmt.Errorf("%s event missing order payload", eventType)
		}
	case enums.EventOrderRemoved:
		if env.OrderID == "" {
			return Event{}, fmt.Errorf("order-removed event missing order id")
		}
	case enums.EventOrdersByStatus:
		status, err := enums.ParseOrderStatus(env.Status)
		if err != nil {
			return Event{}, fmt.Errorf("orders-by-status event: %w", err)
		}
		event.Status = status
	}

	return event, nil
}
