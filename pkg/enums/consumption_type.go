package enums

import "fmt"

// ConsumptionType distinguishes how an order will be consumed.
type ConsumptionType string

const (
	ConsumptionTypeDineIn   ConsumptionType = "dine_in"
	ConsumptionTypeTakeAway ConsumptionType = "take_away"
	ConsumptionTypeDelivery ConsumptionType = "delivery"
)

var validConsumptionTypes = []ConsumptionType{
	ConsumptionTypeDineIn,
	ConsumptionTypeTakeAway,
	ConsumptionTypeDelivery,
}

// String implements fmt.Stringer.
func (c ConsumptionType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConsumptionType.
func (c ConsumptionType) IsValid() bool {
	for _, candidate := range validConsumptionTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConsumptionType converts raw input into a ConsumptionType.
func ParseConsumptionType(value string) (ConsumptionType, error) {
	for _, candidate := range validConsumptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid consumption type %q", value)
}
