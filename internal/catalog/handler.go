package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// BookingFormPath is where the services page sends a patient after choosing.
const BookingFormPath = "/client-appointments/book"

// Handler serves the services page.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

func NewHandler(c *Catalog, logger *logging.Logger) *Handler {
	if c == nil {
		c = Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: c, logger: logger}
}

// List handles GET /services[?category=].
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	if raw == "" {
		writeJSON(w, http.StatusOK, map[string]any{"services": h.catalog.All()})
		return
	}
	category, err := ParseCategory(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("%s: %q", err, raw)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"services": h.catalog.ByCategory(category),
	})
}

// Get handles GET /services/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.ByID(chi.URLParam(r, "id"))
	if errors.Is(err, ErrServiceNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

type bookResponse struct {
	Service      Service              `json:"service"`
	Notification *notify.Notification `json:"notification"`
	Redirect     string               `json:"redirect"`
}

// Book handles POST /services/{id}/book: the "Book Now" action.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.ByID(chi.URLParam(r, "id"))
	if errors.Is(err, ErrServiceNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	h.logger.Debug("booking initiated", "service_id", svc.ID)
	writeJSON(w, http.StatusOK, bookResponse{
		Service:      svc,
		Notification: notify.Success("Booking initiated", "You selected: "+svc.Title),
		Redirect:     BookingFormPath + "?" + url.Values{"service_id": {svc.ID}}.Encode(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
