package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/synapse-clinic-hub/internal/catalog"
	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
	"github.com/wolfman30/synapse-clinic-hub/internal/observability/metrics"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

const (
	defaultDateWindow = 14
	maxDateWindow     = 60
)

// Booker persists a confirmed record for its owner.
type Booker interface {
	Book(ctx context.Context, owner Owner, rec AppointmentRecord) error
}

// Handler serves the booking form endpoints. Every route expects a signed-in
// user in the request context.
type Handler struct {
	catalog *catalog.Catalog
	policy  DatePolicy
	drafts  *DraftStore
	booker  Booker
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Catalog *catalog.Catalog
	Policy  DatePolicy
	Drafts  *DraftStore
	Booker  Booker
	Metrics *metrics.ClinicMetrics
	Logger  *logging.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Drafts == nil {
		cfg.Drafts = NewDraftStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		catalog: cfg.Catalog,
		policy:  cfg.Policy,
		drafts:  cfg.Drafts,
		booker:  cfg.Booker,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

type dateOption struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

type optionsResponse struct {
	TimeSlots      []string          `json:"time_slots"`
	PaymentMethods []PaymentOption   `json:"payment_methods"`
	Services       []catalog.Service `json:"services"`
	NextAvailable  dateOption        `json:"next_available"`
}

// Options handles GET /booking/options.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	next := h.policy.NextSelectable()
	slots := make([]string, len(TimeSlots))
	copy(slots, TimeSlots)
	writeJSON(w, http.StatusOK, optionsResponse{
		TimeSlots:      slots,
		PaymentMethods: PaymentOptions(),
		Services:       h.catalog.All(),
		NextAvailable:  dateOption{Date: next.Format(DateLayout), Label: FormatLongDate(next)},
	})
}

// Dates handles GET /booking/dates?from=YYYY-MM-DD&days=N.
func (h *Handler) Dates(w http.ResponseWriter, r *http.Request) {
	from := h.policy.Today()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := h.policy.ParseDate(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		from = parsed
	}
	days := defaultDateWindow
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxDateWindow {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("days must be a whole number between 1 and %d", maxDateWindow),
			})
			return
		}
		days = n
	}
	dates := h.policy.SelectableDates(from, days)
	out := make([]dateOption, 0, len(dates))
	for _, d := range dates {
		out = append(out, dateOption{Date: d.Format(DateLayout), Label: FormatLongDate(d)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": out})
}

type createDraftRequest struct {
	ServiceID string `json:"service_id"`
}

// CreateDraft handles POST /booking/drafts.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ServiceID == "" {
		req.ServiceID = r.URL.Query().Get("service_id")
	}

	form := NewForm(h.catalog, h.policy, req.ServiceID, h.completion(owner))
	id := h.drafts.Open(owner.Email, form)
	view := form.Snapshot()
	view.ID = id
	writeJSON(w, http.StatusCreated, view)
}

// GetDraft handles GET /booking/drafts/{id}.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var view Draft
	err := h.drafts.With(id, owner.Email, func(f *Form) error {
		view = f.Snapshot()
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	view.ID = id
	writeJSON(w, http.StatusOK, view)
}

type fieldsRequest struct {
	ServiceID     *string `json:"service_id"`
	Date          *string `json:"date"`
	TimeSlot      *string `json:"time_slot"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

func (h *Handler) changes(req fieldsRequest) (Changes, error) {
	c := Changes{
		ServiceID: req.ServiceID,
		TimeSlot:  req.TimeSlot,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		day, err := h.policy.ParseDate(*req.Date)
		if err != nil {
			return Changes{}, err
		}
		c.Date = &day
	}
	if req.PaymentMethod != nil {
		m := PaymentMethod(*req.PaymentMethod)
		c.PaymentMethod = &m
	}
	return c, nil
}

// UpdateDraft handles PATCH /booking/drafts/{id}.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	c, err := h.changes(req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	var view Draft
	err = h.drafts.With(id, owner.Email, func(f *Form) error {
		if err := f.Apply(c); err != nil {
			return err
		}
		view = f.Snapshot()
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	view.ID = id
	writeJSON(w, http.StatusOK, view)
}

// DeleteDraft handles DELETE /booking/drafts/{id}.
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	if !h.drafts.Discard(chi.URLParam(r, "id"), owner.Email) {
		h.writeError(w, ErrDraftNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitResponse struct {
	*Outcome
	Draft *Draft `json:"draft,omitempty"`
}

// SubmitDraft handles POST /booking/drafts/{id}/submit.
func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var (
		outcome *Outcome
		view    Draft
	)
	err := h.drafts.With(id, owner.Email, func(f *Form) error {
		var err error
		outcome, err = f.Submit(r.Context())
		view = f.Snapshot()
		return err
	})
	view.ID = id
	h.writeOutcome(w, outcome, &view, err)
}

// Book handles POST /appointments: open, fill and submit a form in one call.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	preselected := ""
	if req.ServiceID != nil {
		preselected = *req.ServiceID
	}
	c, err := h.changes(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	form := NewForm(h.catalog, h.policy, preselected, h.completion(owner))
	if err := form.Apply(c); err != nil {
		h.writeError(w, err)
		return
	}
	outcome, err := form.Submit(r.Context())
	view := form.Snapshot()
	h.writeOutcome(w, outcome, &view, err)
}

func (h *Handler) writeOutcome(w http.ResponseWriter, outcome *Outcome, view *Draft, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, submitResponse{Outcome: outcome})
	case errors.Is(err, ErrMissingInformation):
		h.metrics.ObserveBooking("rejected", view.ServiceID, 0)
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Outcome: outcome, Draft: view})
	case errors.Is(err, ErrCompletionFailed):
		h.logger.Error("booking completion failed", "error", err, "service_id", view.ServiceID)
		writeJSON(w, http.StatusInternalServerError, submitResponse{Outcome: outcome, Draft: view})
	default:
		h.writeError(w, err)
	}
}

func (h *Handler) completion(owner Owner) CompletionFunc {
	return func(ctx context.Context, rec AppointmentRecord) error {
		if h.booker == nil {
			return nil
		}
		return h.booker.Book(ctx, owner, rec)
	}
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (Owner, bool) {
	user, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
		return Owner{}, false
	}
	return Owner{Email: user.Email, Name: user.Name}, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDraftNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrFormClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, catalog.ErrServiceNotFound),
		errors.Is(err, ErrDateUnavailable),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrUnknownTimeSlot),
		errors.Is(err, ErrUnknownPaymentMethod):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":        err.Error(),
			"notification": notify.Failure("Invalid selection", err.Error()),
		})
	default:
		h.logger.Error("booking request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
