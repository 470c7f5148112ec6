package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DanyGuerra/business-manager-frontend-sub001/api/responses"
	"github.com/DanyGuerra/business-manager-frontend-sub001/api/validators"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/cart"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
)

// GetCart returns the full cart: every group, every line, the running total.
func GetCart(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"groups": composer.Groups(),
			"total":  composer.Total(),
		})
	}
}

type addGroupRequest struct {
	Name string `json:"name"`
}

func AddCartGroup(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addGroupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		group := composer.AddGroup(req.Name)
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

func RemoveCartGroup(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		composer.RemoveGroup(chi.URLParam(r, "groupID"))
		responses.WriteSuccess(w, map[string]any{
			"groups": composer.Groups(),
			"total":  composer.Total(),
		})
	}
}

type addItemRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	OptionIDs []string `json:"option_ids"`
}

// AddCartItem adds a product line to a group. An empty group id adds to a
// freshly created default group.
func AddCartItem(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := composer.AddItem(chi.URLParam(r, "groupID"), req.ProductID, req.Quantity, req.OptionIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartQuantity changes a line's quantity. Zero or below removes the
// line, matching directly typing over the quantity field.
func UpdateCartQuantity(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		composer.UpdateQuantity(chi.URLParam(r, "groupID"), chi.URLParam(r, "itemID"), req.Quantity)
		responses.WriteSuccess(w, map[string]any{
			"groups": composer.Groups(),
			"total":  composer.Total(),
		})
	}
}

func RemoveCartItem(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		composer.RemoveItem(chi.URLParam(r, "groupID"), chi.URLParam(r, "itemID"))
		responses.WriteSuccess(w, map[string]any{
			"groups": composer.Groups(),
			"total":  composer.Total(),
		})
	}
}

// LoadCartFromOrder replaces the cart contents with an existing order's
// lines so it can be edited and resubmitted.
func LoadCartFromOrder(composer *cart.Composer, store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := store.Get(chi.URLParam(r, "orderID"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not held by store"))
			return
		}
		composer.Load(cart.MapOrderToCart(order))
		responses.WriteSuccess(w, map[string]any{
			"groups": composer.Groups(),
			"total":  composer.Total(),
		})
	}
}

func ClearCart(composer *cart.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		composer.Clear()
		responses.WriteSuccess(w, map[string]any{
			"groups": composer.Groups(),
			"total":  composer.Total(),
		})
	}
}

type submitRequest struct {
	ConsumptionType string `json:"consumption_type" validate:"required"`
	CustomerName    string `json:"customer_name"`
}

// SubmitCart sends the composed cart to the backend as a new order. The cart
// is cleared only after the backend accepts it.
func SubmitCart(submit *cart.SubmitService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		consumptionType, err := enums.ParseConsumptionType(req.ConsumptionType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}
		if err := submit.Submit(r.Context(), consumptionType, req.CustomerName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"submitted": true})
	}
}
