package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// Handler serves the sign-in endpoints.
type Handler struct {
	manager      *Manager
	secureCookie bool
	cookieMaxAge time.Duration
	logger       *logging.Logger
}

func NewHandler(manager *Manager, secureCookie bool, cookieMaxAge time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, secureCookie: secureCookie, cookieMaxAge: cookieMaxAge, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         UserSession          `json:"user"`
	Token        string               `json:"token"`
	Nav          []NavItem            `json:"nav"`
	Notification *notify.Notification `json:"notification"`
	Redirect     string               `json:"redirect"`
}

type envelope struct {
	Notification *notify.Notification `json:"notification,omitempty"`
	Redirect     string               `json:"redirect,omitempty"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.manager.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, envelope{
			Notification: notify.Failure("Login failed", "Invalid email or password. Please try again."),
		})
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Info("login abandoned", "error", err)
		return
	case err != nil:
		h.logger.Error("login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Notification: notify.Failure("Login failed", "Something went wrong. Please try again."),
		})
		return
	}

	http.SetCookie(w, h.cookie(res.Token))
	writeJSON(w, http.StatusOK, loginResponse{
		User:         res.User,
		Token:        res.Token,
		Nav:          NavItems(res.User.Role),
		Notification: notify.Success("Login successful", "Welcome back to Synapse Clinic Hub!"),
		Redirect:     res.Redirect,
	})
}

// Logout handles POST /auth/logout. It succeeds with or without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid, _ := IDFromContext(r.Context())
	if err := h.manager.Logout(r.Context(), sid); err != nil {
		h.logger.Error("logout failed", "error", err)
	}
	expired := h.cookie("")
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	writeJSON(w, http.StatusOK, envelope{
		Notification: notify.Success("Logged out", "You have been successfully logged out."),
		Redirect:     LoginPath,
	})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": user,
		"nav":  NavItems(user.Role),
		"home": user.Role.HomePath(),
	})
}

// Page answers GET /login and GET /register for anonymous visitors.
func Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"page": name})
	}
}

func (h *Handler) cookie(token string) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookieMaxAge > 0 {
		c.MaxAge = int(h.cookieMaxAge.Seconds())
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
