package orders

import (
	"strings"
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
)

// Filters narrow the fetched order collection. Zero values mean "all".
type Filters struct {
	Status          enums.OrderStatus     `json:"status,omitempty"`
	ConsumptionType enums.ConsumptionType `json:"consumption_type,omitempty"`
	Sort            enums.SortDirection   `json:"sort"`
	StartDate       *time.Time            `json:"start_date,omitempty"`
	EndDate         *time.Time            `json:"end_date,omitempty"`
	CustomerName    string                `json:"customer_name,omitempty"`
	Paid            enums.PaidFilter      `json:"paid"`
}

// DefaultFilters returns the filter state applied on reset and at store
// creation: everything unfiltered, newest first.
func DefaultFilters() Filters {
	return Filters{
		Sort: enums.SortDirectionDesc,
		Paid: enums.PaidFilterAll,
	}
}

// FilterPatch is a partial filter update. Nil fields are left untouched;
// ClearDates drops both date bounds regardless of the date fields.
type FilterPatch struct {
	Status          *enums.OrderStatus
	ConsumptionType *enums.ConsumptionType
	Sort            *enums.SortDirection
	StartDate       *time.Time
	EndDate         *time.Time
	ClearDates      bool
	CustomerName    *string
	Paid            *enums.PaidFilter
}

func (f Filters) applied(patch FilterPatch) Filters {
	next := f
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.ConsumptionType != nil {
		next.ConsumptionType = *patch.ConsumptionType
	}
	if patch.Sort != nil {
		next.Sort = *patch.Sort
	}
	if patch.ClearDates {
		next.StartDate = nil
		next.EndDate = nil
	} else {
		if patch.StartDate != nil {
			start := *patch.StartDate
			next.StartDate = &start
		}
		if patch.EndDate != nil {
			end := *patch.EndDate
			next.EndDate = &end
		}
	}
	if patch.CustomerName != nil {
		next.CustomerName = *patch.CustomerName
	}
	if patch.Paid != nil {
		next.Paid = *patch.Paid
	}
	return next
}

// Matches reports whether an order satisfies the display filters. Pushed
// orders are re-checked against this so a lane never shows rows the active
// filter would have excluded from a fetch.
func (f Filters) Matches(order Order) bool {
	if f.Status != "" && order.Status != f.Status {
		return false
	}
	if f.ConsumptionType != "" && order.ConsumptionType != f.ConsumptionType {
		return false
	}
	if f.StartDate != nil && order.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && order.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.CustomerName != "" && !containsFold(order.CustomerName, f.CustomerName) {
		return false
	}
	switch f.Paid {
	case enums.PaidFilterPaid:
		if !order.Paid {
			return false
		}
	case enums.PaidFilterUnpaid:
		if order.Paid {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
