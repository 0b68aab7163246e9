package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodbooking/internal/auth"
	"foodbooking/internal/logger"
	"foodbooking/internal/support"
	"foodbooking/internal/utils"
)

type Handler struct {
	Service *support.Service
	Logger  *logger.Logger
}

func NewHandler(service *support.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// List returns the caller's tickets, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	tickets, err := h.Service.ForUser(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("list tickets: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load tickets")
		return
	}
	utils.WriteJSON(w, http.StatusOK, tickets)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	ticket, err := h.Service.Submit(r.Context(), user.ID, r.FormValue("subject"), r.FormValue("message"))
	if err != nil {
		if errors.Is(err, support.ErrMissingFields) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("API", fmt.Sprintf("submit ticket: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to submit ticket")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ticket)
}

// UpdateStatus transitions a ticket; only platform administrators pass
// the service-side check.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	caller := auth.Caller{Kind: auth.CallerRestaurantStaff, UserID: user.ID}
	if user.IsAdmin {
		caller.Kind = auth.CallerAdmin
	}

	ticketID, err := strconv.ParseInt(chi.URLParam(r, "ticketID"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	err = h.Service.UpdateStatus(r.Context(), caller, ticketID, r.FormValue("status"))
	switch {
	case errors.Is(err, support.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, support.ErrBadStatus):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, support.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "ticket not found")
		return
	case err != nil:
		h.Logger.Error("API", fmt.Sprintf("update ticket %d: %v", ticketID, err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update ticket")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ticket updated", nil))
}
