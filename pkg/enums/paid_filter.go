package enums

import "fmt"

// PaidFilter narrows the order list by payment state.
type PaidFilter string

const (
	PaidFilterAll    PaidFilter = "all"
	PaidFilterPaid   PaidFilter = "paid"
	PaidFilterUnpaid PaidFilter = "unpaid"
)

var validPaidFilters = []PaidFilter{
	PaidFilterAll,
	PaidFilterPaid,
	PaidFilterUnpaid,
}

// String implements fmt.Stringer.
func (p PaidFilter) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaidFilter.
func (p PaidFilter) IsValid() bool {
	for _, candidate := range validPaidFilters {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaidFilter converts raw input into a PaidFilter.
func ParsePaidFilter(value string) (PaidFilter, error) {
	for _, candidate := range validPaidFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid paid filter %q", value)
}
