package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodbooking/internal/auth"
	"foodbooking/internal/cart"
	"foodbooking/internal/catalog"
	"foodbooking/internal/logger"
	"foodbooking/internal/utils"
)

type Handler struct {
	Service *cart.Service
	Logger  *logger.Logger
}

func NewHandler(service *cart.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// View returns the resolved cart: line items priced against the current
// catalog plus the running total.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	view, err := h.Service.View(r.Context(), session.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("cart view: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	dishID, err := parseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}

	_, err = h.Service.Add(r.Context(), session.ID, dishID)
	switch {
	case errors.Is(err, cart.ErrCrossRestaurant):
		// The customer sees their cart with the conflict intact instead
		// of a dead end.
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	case errors.Is(err, catalog.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "dish not found")
		return
	case err != nil:
		h.Logger.Error("API", fmt.Sprintf("cart add: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// AddJSON is the fetch-friendly variant of Add: no redirects, a small
// mutation payload on success and a JSON error otherwise.
func (h *Handler) AddJSON(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	dishID, err := parseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}

	result, err := h.Service.Add(r.Context(), session.ID, dishID)
	switch {
	case errors.Is(err, cart.ErrCrossRestaurant):
		utils.WriteError(w, http.StatusBadRequest, cart.ErrCrossRestaurant.Error())
		return
	case errors.Is(err, catalog.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "dish not found")
		return
	case err != nil:
		h.Logger.Error("API", fmt.Sprintf("cart add: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	dishID, err := parseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}
	qty, err := parseQty(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	if _, err := h.Service.Update(r.Context(), session.ID, dishID, qty); err != nil {
		h.Logger.Error("API", fmt.Sprintf("cart update: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) UpdateJSON(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	dishID, err := parseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}
	qty, err := parseQty(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	result, err := h.Service.Update(r.Context(), session.ID, dishID, qty)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("cart update: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	dishID, err := parseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}

	if err := h.Service.Remove(r.Context(), session.ID, dishID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("cart remove: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if err := h.Service.Clear(r.Context(), session.ID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("cart clear: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "dishID"), 10, 64)
}

// parseQty reads the posted quantity; an absent field means "add one".
func parseQty(r *http.Request) (int, error) {
	raw := r.FormValue("qty")
	if raw == "" {
		return 1, nil
	}
	return strconv.Atoi(raw)
}

func redirectTarget(r *http.Request) string {
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return "/app"
}
