package enums

import "fmt"

// OrderStatus tracks the kitchen lifecycle of an order. The backend owns
// transition legality; the client renders whatever status arrives.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusInProgress,
	OrderStatusDone,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// OrderStatuses returns the known statuses in kanban lane order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
