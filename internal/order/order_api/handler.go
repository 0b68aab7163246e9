package order_api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodbooking/internal/auth"
	"foodbooking/internal/cart"
	"foodbooking/internal/invoice"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
	"foodbooking/internal/order"
	orderdb "foodbooking/internal/order/db"
	"foodbooking/internal/utils"
)

type Handler struct {
	Service *order.Service
	Carts   *cart.Service
	Logger  *logger.Logger
}

func NewHandler(service *order.Service, carts *cart.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Carts: carts, Logger: log}
}

// CheckoutPage returns the data the checkout form is built from; an
// empty cart is sent back to the catalog instead.
func (h *Handler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	view, err := h.Carts.View(r.Context(), session.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("checkout page: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if len(view.Items) == 0 {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	req := order.CheckoutRequest{
		Name:              r.FormValue("name"),
		Phone:             r.FormValue("phone"),
		Address:           r.FormValue("address"),
		DeliveryLatitude:  r.FormValue("delivery_latitude"),
		DeliveryLongitude: r.FormValue("delivery_longitude"),
		PaymentMethod:     r.FormValue("payment"),
	}

	ord, err := h.Service.Checkout(r.Context(), session.ID, user, req)
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	case errors.Is(err, order.ErrMixedRestaurants):
		utils.WriteError(w, http.StatusBadRequest, order.ErrMixedRestaurants.Error())
		return
	case err != nil:
		h.Logger.Error("API", fmt.Sprintf("checkout: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id": ord.ID,
		"redirect": fmt.Sprintf("/invoice/%d", ord.ID),
	})
}

// Invoice returns the order with its frozen line items and the tax
// breakdown used on the printed invoice.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	ord, ok := h.loadOwnOrder(w, r)
	if !ok {
		return
	}

	totals := invoice.Compute(ord.Items)
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"order":  ord,
		"totals": totals,
	})
}

// InvoicePDF streams the rendered PDF. Rendering problems (a missing
// font, most commonly) degrade to 503 instead of failing the order view.
func (h *Handler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	ord, ok := h.loadOwnOrder(w, r)
	if !ok {
		return
	}

	pdf, err := h.Service.RenderInvoice(ord)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("invoice pdf for order %d: %v", ord.ID, err))
		utils.WriteError(w, http.StatusServiceUnavailable, order.ErrPDFUnavailable.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", ord.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.Logger.Error("API", fmt.Sprintf("invoice pdf write: %v", err))
	}
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	orders, err := h.Service.History(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("order history: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// loadOwnOrder parses the order id and enforces ownership. Orders that
// don't exist and orders that belong to someone else are both 404.
func (h *Handler) loadOwnOrder(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	user := auth.UserFromContext(r.Context())
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid order id")
		return nil, false
	}

	ord, err := h.Service.OrderForUser(r.Context(), orderID, user.ID)
	if errors.Is(err, orderdb.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return nil, false
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("load order %d: %v", orderID, err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load order")
		return nil, false
	}
	return ord, true
}
