package api

import (
	"errors"
	"fmt"
	"net/http"

	"foodbooking/internal/auth"
	"foodbooking/internal/logger"
	"foodbooking/internal/utils"
)

type Handler struct {
	Service    *auth.Service
	CookieName string
	Logger     *logger.Logger
}

func NewHandler(service *auth.Service, cookieName string, log *logger.Logger) *Handler {
	return &Handler{Service: service, CookieName: cookieName, Logger: log}
}

// LoginInfo answers the GET variants of the auth routes with the
// session state so the client can decide what to render.
func (h *Handler) LoginInfo(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": user != nil,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}

	user, err := h.Service.Register(r.Context(),
		r.FormValue("username"),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("confirm"),
	)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields),
			errors.Is(err, auth.ErrPasswordMismatch),
			errors.Is(err, auth.ErrUsernameTaken):
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.Logger.Error("API", fmt.Sprintf("Register: %v", err))
			utils.WriteError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	session := auth.SessionFromContext(r.Context())
	if err := h.Service.BindUser(r.Context(), session, user.ID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: bind session: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("account created", user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}

	user, err := h.Service.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Login: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	session := auth.SessionFromContext(r.Context())
	if err := h.Service.BindUser(r.Context(), session, user.ID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: bind session: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("logged in", user))
}

// RestaurantLogin is the staff entry point; accounts without a
// restaurant profile are rejected before any session is bound.
func (h *Handler) RestaurantLogin(w http.ResponseWriter, r *http.Request) {
	user, profile, err := h.Service.RestaurantLogin(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			utils.WriteError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, auth.ErrNoProfile):
			utils.WriteError(w, http.StatusForbidden, err.Error())
		default:
			h.Logger.Error("API", fmt.Sprintf("RestaurantLogin: %v", err))
			utils.WriteError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	session := auth.SessionFromContext(r.Context())
	if err := h.Service.BindUser(r.Context(), session, user.ID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RestaurantLogin: bind session: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("logged in", map[string]interface{}{
		"user":    user,
		"profile": profile,
	}))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session != nil {
		if err := h.Service.Logout(r.Context(), session); err != nil {
			h.Logger.Error("API", fmt.Sprintf("Logout: %v", err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
