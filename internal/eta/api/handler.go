package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"foodbooking/internal/catalog"
	"foodbooking/internal/eta"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
	"foodbooking/internal/utils"
)

// RestaurantSource resolves the origin of the trip.
type RestaurantSource interface {
	ActiveRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error)
}

type Handler struct {
	Client      *eta.Client
	Restaurants RestaurantSource
	Logger      *logger.Logger
}

func NewHandler(client *eta.Client, restaurants RestaurantSource, log *logger.Logger) *Handler {
	return &Handler{Client: client, Restaurants: restaurants, Logger: log}
}

// Estimate answers GET /eta: travel time from the restaurant to the
// customer's coordinates. Failures degrade to an explicit error payload
// rather than blocking checkout.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat := q.Get("lat")
	lng := q.Get("lng")
	restaurantID, err := strconv.ParseInt(q.Get("restaurant"), 10, 64)
	if err != nil || lat == "" || lng == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing restaurant, lat or lng")
		return
	}

	restaurant, err := h.Restaurants.ActiveRestaurantByID(r.Context(), restaurantID)
	if errors.Is(err, catalog.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "restaurant not found")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("eta restaurant %d: %v", restaurantID, err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load restaurant")
		return
	}
	if restaurant.Latitude == nil || restaurant.Longitude == nil {
		utils.WriteError(w, http.StatusBadRequest, "restaurant location not set")
		return
	}

	origin := fmt.Sprintf("%s,%s", restaurant.Latitude.String(), restaurant.Longitude.String())
	destination := fmt.Sprintf("%s,%s", lat, lng)

	estimate, err := h.Client.Travel(r.Context(), origin, destination)
	switch {
	case errors.Is(err, eta.ErrNotConfigured):
		utils.WriteError(w, http.StatusBadRequest, "ETA service not configured")
		return
	case err != nil:
		h.Logger.Error("API", fmt.Sprintf("eta lookup: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "ETA unavailable")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"restaurant":       restaurant.Name,
		"duration_text":    estimate.DurationText,
		"duration_seconds": estimate.DurationSeconds,
	})
}
