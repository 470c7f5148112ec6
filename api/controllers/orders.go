package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/api/responses"
	"github.com/DanyGuerra/business-manager-frontend-sub001/api/validators"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/kanban"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
)

type fetcher interface {
	Fetch(ctx context.Context) error
}

// Board renders the kanban lane projection of the current store contents.
func Board(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.Snapshot()
		responses.WriteSuccess(w, map[string]any{
			"business_id": state.BusinessID,
			"revision":    state.Revision,
			"lanes":       kanban.Lanes(state),
		})
	}
}

// ListOrders renders the flat list projection with pagination metadata.
func ListOrders(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.Snapshot()
		responses.WriteSuccess(w, map[string]any{
			"business_id":     state.BusinessID,
			"revision":        state.Revision,
			"orders":          kanban.List(state),
			"pagination":      state.Pagination,
			"filters":         state.Filters,
			"active_order_id": state.ActiveOrderID,
		})
	}
}

type filtersRequest struct {
	Status          *string `json:"status,omitempty"`
	ConsumptionType *string `json:"consumption_type,omitempty"`
	Sort            *string `json:"sort,omitempty"`
	StartDate       *string `json:"start_date,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
	ClearDates      bool    `json:"clear_dates,omitempty"`
	CustomerName    *string `json:"customer_name,omitempty"`
	Paid            *string `json:"paid,omitempty"`
	Page            *int    `json:"page,omitempty" validate:"omitempty,min=1"`
	Limit           *int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// SetFilters applies a partial filter update and refetches. Page and limit
// travel on the same request; a filter change resets the page regardless.
func SetFilters(store *orders.Store, fetch fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req filtersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch, err := buildPatch(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.SetFilters(patch)
		if req.Limit != nil {
			store.SetLimit(*req.Limit)
		}
		if req.Page != nil {
			store.SetPage(*req.Page)
		}

		if err := fetch.Fetch(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"filters":    store.Filters(),
			"pagination": store.Pagination(),
		})
	}
}

// ResetFilters restores defaults and refetches the first page.
func ResetFilters(store *orders.Store, fetch fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.ResetFilters()
		if err := fetch.Fetch(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"filters":    store.Filters(),
			"pagination": store.Pagination(),
		})
	}
}

// RefreshOrders fetches the current page again, superseding any fetch still
// in flight.
func RefreshOrders(fetch fetcher, store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fetch.Fetch(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"pagination": store.Pagination(),
			"revision":   store.Revision(),
		})
	}
}

type activeOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// SetActiveOrder points the detail view at an order.
func SetActiveOrder(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.SetActiveOrder(req.OrderID)
		order, ok := store.ActiveOrder()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not held by store"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func buildPatch(req filtersRequest) (orders.FilterPatch, error) {
	patch := orders.FilterPatch{
		ClearDates:   req.ClearDates,
		CustomerName: req.CustomerName,
	}

	if req.Status != nil {
		if *req.Status == "" {
			all := enums.OrderStatus("")
			patch.Status = &all
		} else {
			status, err := enums.ParseOrderStatus(*req.Status)
			if err != nil {
				return orders.FilterPatch{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			patch.Status = &status
		}
	}
	if req.ConsumptionType != nil {
		if *req.ConsumptionType == "" {
			all := enums.ConsumptionType("")
			patch.ConsumptionType = &all
		} else {
			ct, err := enums.ParseConsumptionType(*req.ConsumptionType)
			if err != nil {
				return orders.FilterPatch{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			patch.ConsumptionType = &ct
		}
	}
	if req.Sort != nil {
		sort, err := enums.ParseSortDirection(*req.Sort)
		if err != nil {
			return orders.FilterPatch{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		patch.Sort = &sort
	}
	if req.Paid != nil {
		paid, err := enums.ParsePaidFilter(*req.Paid)
		if err != nil {
			return orders.FilterPatch{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		patch.Paid = &paid
	}
	if req.StartDate != nil {
		start, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			return orders.FilterPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be RFC 3339")
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return orders.FilterPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be RFC 3339")
		}
		patch.EndDate = &end
	}
	return patch, nil
}
