package enums

import "fmt"

// RealtimeEventType names the inbound push events the channel routes.
type RealtimeEventType string

const (
	EventOrderCreated   RealtimeEventType = "order-created"
	EventOrderUpdated   RealtimeEventType = "order-updated"
	EventOrderRemoved   RealtimeEventType = "order-removed"
	EventOrdersByStatus RealtimeEventType = "orders-by-status"
)

var validRealtimeEventTypes = []RealtimeEventType{
	EventOrderCreated,
	EventOrderUpdated,
	EventOrderRemoved,
	EventOrdersByStatus,
}

// String implements fmt.Stringer.
func (r RealtimeEventType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RealtimeEventType.
func (r RealtimeEventType) IsValid() bool {
	for _, candidate := range validRealtimeEventTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRealtimeEventType converts raw input into a RealtimeEventType.
func ParseRealtimeEventType(value string) (RealtimeEventType, error) {
	for _, candidate := range validRealtimeEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid realtime event type %q", value)
}
