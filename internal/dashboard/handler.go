package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// Handler serves GET /dashboard and GET /client-dashboard. Role gating is
// applied by the router.
type Handler struct {
	builder *Builder
	logger  *logging.Logger
}

func NewHandler(builder *Builder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{builder: builder, logger: logger}
}

func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	user, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	d, err := h.builder.Admin(r.Context(), user)
	if err != nil {
		h.logger.Error("admin dashboard failed", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Client(w http.ResponseWriter, r *http.Request) {
	user, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	d, err := h.builder.Client(r.Context(), user)
	if err != nil {
		h.logger.Error("client dashboard failed", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
