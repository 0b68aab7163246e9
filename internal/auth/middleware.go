package auth

import (
	"context"
	"fmt"
	"net/http"

	"foodbooking/internal/logger"
	"foodbooking/internal/models"
)

type contextKey string

const (
	sessionKeyCtx contextKey = "session"
	userKeyCtx    contextKey = "user"
	callerKeyCtx  contextKey = "caller"
)

// Middleware attaches the session (creating one on first contact), the
// logged-in user, and — for restaurant routes — the resolved Caller.
type Middleware struct {
	Service    *Service
	CookieName string
	Logger     *logger.Logger
}

func NewMiddleware(service *Service, cookieName string, log *logger.Logger) *Middleware {
	return &Middleware{Service: service, CookieName: cookieName, Logger: log}
}

// WithSession guarantees every request carries a live session and, when
// the session is bound to an account, the user loaded from the store.
func (m *Middleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var session *Session
		if cookie, err := r.Cookie(m.CookieName); err == nil {
			session, err = m.Service.Sessions.Get(ctx, cookie.Value)
			if err != nil {
				m.Logger.Error("AUTH", fmt.Sprintf("session lookup failed: %v", err))
			}
		}

		if session == nil {
			created, err := m.Service.Sessions.Create(ctx)
			if err != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			session = created
			http.SetCookie(w, &http.Cookie{
				Name:     m.CookieName,
				Value:    session.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx = context.WithValue(ctx, sessionKeyCtx, session)

		if session.UserID != 0 {
			user, err := m.Service.DB.UserByID(ctx, session.UserID)
			if err != nil {
				m.Logger.Error("AUTH", fmt.Sprintf("user lookup failed: %v", err))
			} else if user != nil {
				ctx = context.WithValue(ctx, userKeyCtx, user)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser redirects anonymous requests to the customer login.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff resolves the Caller once and fails closed: requests
// without a restaurant profile are bounced to the restaurant login and
// never see another restaurant's data.
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/restaurant/login", http.StatusSeeOther)
			return
		}

		caller, err := m.Service.ResolveCaller(r.Context(), user)
		if err != nil {
			m.Logger.LogSecurity("NO_PROFILE", fmt.Sprintf("user %d denied restaurant access", user.ID))
			http.Redirect(w, r, "/restaurant/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), callerKeyCtx, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionFromContext(ctx context.Context) *Session {
	if session, ok := ctx.Value(sessionKeyCtx).(*Session); ok {
		return session
	}
	return nil
}

func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKeyCtx).(*models.User); ok {
		return user
	}
	return nil
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKeyCtx).(Caller)
	return caller, ok
}
