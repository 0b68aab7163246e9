package api

import (
	"fmt"
	"net/http"
	"time"

	"foodbooking/internal/auth"
	"foodbooking/internal/dashboard"
	"foodbooking/internal/logger"
	"foodbooking/internal/utils"
)

type Handler struct {
	Service *dashboard.Service
	Logger  *logger.Logger
}

func NewHandler(service *dashboard.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// Overview serves the staff dashboard for the caller's restaurant. The
// middleware already resolved the caller; no profile means no dashboard.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok || caller.RestaurantID == 0 {
		http.Redirect(w, r, "/restaurant/login", http.StatusSeeOther)
		return
	}

	stats, err := h.Service.RestaurantStats(r.Context(), caller.RestaurantID, time.Now())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("dashboard for restaurant %d: %v", caller.RestaurantID, err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}
