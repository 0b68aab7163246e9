package api

import (
	"encoding/json"
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
	Service *catalog.Service
	Carts   *cart.Service
	Logger  *logger.Logger
}

func NewHandler(service *catalog.Service, carts *cart.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Carts: carts, Logger: log}
}

// Home is the public landing payload: the active restaurants and
// whether the visitor is signed in.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Service.ActiveRestaurants(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("home: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load restaurants")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"restaurants":   restaurants,
		"authenticated": auth.UserFromContext(r.Context()) != nil,
	})
}

// Browse is the main catalog view. Every filter is read straight from
// the query string; malformed values degrade to "no filter".
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Query:     q.Get("q"),
		Veg:       q.Get("veg"),
		MinRating: q.Get("min_rating"),
		PriceBand: q.Get("price"),
		Sort:      q.Get("sort"),
	}
	if raw := q.Get("restaurant"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.RestaurantID = id
		}
	}

	result, err := h.Service.Search(r.Context(), f)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("browse: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load dishes")
		return
	}

	restaurants, err := h.Service.ActiveRestaurants(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("browse restaurants: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load restaurants")
		return
	}

	session := auth.SessionFromContext(r.Context())
	cartCount, err := h.Carts.Count(r.Context(), session.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("browse cart count: %v", err))
		cartCount = 0
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dishes":              result.Dishes,
		"grouped":             result.Groups,
		"restaurants":         restaurants,
		"selected_restaurant": f.RestaurantID,
		"cart_count":          cartCount,
	})
}

// ManagementList returns the caller's own dishes, available or not.
func (h *Handler) ManagementList(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusForbidden, auth.ErrNoProfile.Error())
		return
	}

	dishes, err := h.Service.DishesForRestaurant(r.Context(), caller)
	if err != nil {
		if errors.Is(err, auth.ErrNoProfile) {
			utils.WriteError(w, http.StatusForbidden, err.Error())
			return
		}
		h.Logger.Error("API", fmt.Sprintf("management list: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load dishes")
		return
	}
	utils.WriteJSON(w, http.StatusOK, dishes)
}

// AddDishForm supplies the categories the add form offers.
func (h *Handler) AddDishForm(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("categories: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

type addDishesRequest struct {
	Dishes []catalog.DishInput `json:"dishes"`
}

// AddDishes accepts a batch of new dishes for the caller's restaurant.
// One invalid row rejects the whole batch.
func (h *Handler) AddDishes(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusForbidden, auth.ErrNoProfile.Error())
		return
	}

	var req addDishesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Dishes) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "no dishes supplied")
		return
	}

	created, err := h.Service.AddDishes(r.Context(), caller, req.Dishes)
	if err != nil {
		if errors.Is(err, auth.ErrNoProfile) {
			utils.WriteError(w, http.StatusForbidden, err.Error())
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"created": created})
}

func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusForbidden, auth.ErrNoProfile.Error())
		return
	}
	dishID, err := strconv.ParseInt(chi.URLParam(r, "dishID"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}

	var in catalog.DishInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dish, err := h.Service.UpdateDish(r.Context(), caller, dishID, in)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "dish not found")
		return
	case errors.Is(err, catalog.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, dish)
}

func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusForbidden, auth.ErrNoProfile.Error())
		return
	}
	dishID, err := strconv.ParseInt(chi.URLParam(r, "dishID"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dish id")
		return
	}

	err = h.Service.DeleteDish(r.Context(), caller, dishID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "dish not found")
		return
	case errors.Is(err, catalog.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		h.Logger.Error("API", fmt.Sprintf("delete dish %d: %v", dishID, err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to delete dish")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("dish deleted", nil))
}
