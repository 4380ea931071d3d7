package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// Handler serves sign-up and password reset.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type envelope struct {
	User         *User                `json:"user,omitempty"`
	Notification *notify.Notification `json:"notification"`
	Redirect     string               `json:"redirect,omitempty"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.service.Register(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, envelope{
			User:         user,
			Notification: notify.Success("Registration successful", "Your account has been created. You can now log in."),
			Redirect:     session.LoginPath,
		})
	case errors.Is(err, ErrPasswordMismatch):
		writeJSON(w, http.StatusBadRequest, envelope{
			Notification: notify.Failure("Passwords do not match", "Please ensure both password fields match."),
		})
	case errors.Is(err, ErrMissingFields):
		writeJSON(w, http.StatusBadRequest, envelope{
			Notification: notify.Failure("Missing information", "Please fill in all the required fields."),
		})
	case errors.Is(err, ErrDuplicateAccount):
		writeJSON(w, http.StatusConflict, envelope{
			Notification: notify.Failure("Registration failed", "An account with this email already exists."),
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Info("registration abandoned", "error", err)
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{
			Notification: notify.Failure("Registration failed", "Something went wrong. Please try again."),
		})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /auth/forgot-password. The answer is the same
// whether or not the account exists.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	h.service.ForgotPassword(r.Context(), req.Email)
	writeJSON(w, http.StatusOK, envelope{
		Notification: notify.Success("Reset link sent", "If an account exists with that email, you'll receive a password reset link."),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
