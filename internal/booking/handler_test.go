package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

type fakeBooker struct {
	owners  []Owner
	records []AppointmentRecord
	err     error
}

func (f *fakeBooker) Book(_ context.Context, owner Owner, rec AppointmentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.owners = append(f.owners, owner)
	f.records = append(f.records, rec)
	return nil
}

var testClient = session.UserSession{Name: "Client User", Email: "client@example.com", Role: session.RoleClient}

func newTestRouter(booker Booker) (http.Handler, *DraftStore) {
	drafts := NewDraftStore()
	h := NewHandler(HandlerConfig{
		Policy: fixedPolicy(),
		Drafts: drafts,
		Booker: booker,
		Logger: logging.Discard(),
	})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-Test-Anonymous") == "" {
				req = req.WithContext(session.WithUser(req.Context(), "sid", testClient))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/booking/options", h.Options)
	r.Get("/booking/dates", h.Dates)
	r.Post("/booking/drafts", h.CreateDraft)
	r.Get("/booking/drafts/{id}", h.GetDraft)
	r.Patch("/booking/drafts/{id}", h.UpdateDraft)
	r.Delete("/booking/drafts/{id}", h.DeleteDraft)
	r.Post("/booking/drafts/{id}/submit", h.SubmitDraft)
	r.Post("/appointments", h.Book)
	return r, drafts
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Options(t *testing.T) {
	r, _ := newTestRouter(nil)
	w := do(t, r, http.MethodGet, "/booking/options", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body optionsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.TimeSlots, 15)
	assert.Len(t, body.PaymentMethods, 3)
	assert.Len(t, body.Services, 8)
	assert.Equal(t, "2025-05-20", body.NextAvailable.Date)
}

func TestHandler_Dates(t *testing.T) {
	r, _ := newTestRouter(nil)
	w := do(t, r, http.MethodGet, "/booking/dates?from=2025-05-23&days=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"dates":[{"date":"2025-05-23","label":"May 23rd, 2025"},{"date":"2025-05-26","label":"May 26th, 2025"}]}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/booking/dates?from=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, days := range []string{"two", "0", "-3", "61"} {
		w = do(t, r, http.MethodGet, "/booking/dates?from=2025-05-23&days="+days, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, days)
		assert.Contains(t, w.Body.String(), "between 1 and 60", days)
	}

	w = do(t, r, http.MethodGet, "/booking/dates?from=2025-05-23", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Dates []dateOption `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Dates, defaultDateWindow)
}

func TestHandler_DraftLifecycle(t *testing.T) {
	booker := &fakeBooker{}
	r, drafts := newTestRouter(booker)

	w := do(t, r, http.MethodPost, "/booking/drafts", `{"service_id":"5"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var draft Draft
	require.NoError(t, json.NewDecoder(w.Body).Decode(&draft))
	assert.Equal(t, "5", draft.ServiceID)
	assert.Equal(t, 2500, draft.Price)
	require.NotEmpty(t, draft.ID)
	path := "/booking/drafts/" + draft.ID

	// incomplete submit is rejected and keeps the draft
	w = do(t, r, http.MethodPost, path+"/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in all the required fields.")
	assert.Equal(t, 1, drafts.Len())

	// a weekend date is refused and nothing else in the patch lands
	w = do(t, r, http.MethodPatch, path, `{"date":"2025-05-24","time_slot":"9:00 AM"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, path, "")
	require.NoError(t, json.NewDecoder(w.Body).Decode(&draft))
	assert.Empty(t, draft.TimeSlot)

	w = do(t, r, http.MethodPatch, path, `{"date":"2025-05-22","time_slot":"9:00 AM","payment_method":"upi","service_id":"7"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, path+"/submit", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var outcome Outcome
	require.NoError(t, json.NewDecoder(w.Body).Decode(&outcome))
	assert.Equal(t, "/client-dashboard", outcome.Redirect)
	assert.Equal(t, 3000, outcome.Record.Price)
	assert.Equal(t, "Your appointment has been scheduled for May 22nd, 2025 at 9:00 AM.", outcome.Notification.Description)

	require.Len(t, booker.records, 1)
	assert.Equal(t, "client@example.com", booker.owners[0].Email)
	assert.Equal(t, 0, drafts.Len())

	w = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_DeleteDraft(t *testing.T) {
	r, drafts := newTestRouter(nil)
	w := do(t, r, http.MethodPost, "/booking/drafts", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var draft Draft
	require.NoError(t, json.NewDecoder(w.Body).Decode(&draft))
	assert.Equal(t, "1", draft.ServiceID)

	w = do(t, r, http.MethodDelete, "/booking/drafts/"+draft.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, drafts.Len())

	w = do(t, r, http.MethodDelete, "/booking/drafts/"+draft.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_OneShotBooking(t *testing.T) {
	booker := &fakeBooker{}
	r, _ := newTestRouter(booker)

	w := do(t, r, http.MethodPost, "/appointments", `{"service_id":"2","date":"2025-05-21","time_slot":"12:30 PM","payment_method":"netbanking","notes":"follow-up"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, booker.records, 1)
	assert.Equal(t, "Follow-up Consultation", booker.records[0].ServiceTypeName)
	assert.Equal(t, PaymentNetBanking, booker.records[0].PaymentMethod)

	w = do(t, r, http.MethodPost, "/appointments", `{"service_id":"2","time_slot":"12:30 PM"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodPost, "/appointments", `{"service_id":"2","date":"2025-05-19","time_slot":"12:30 PM","payment_method":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CompletionFailure(t *testing.T) {
	r, _ := newTestRouter(&fakeBooker{err: errors.New("db down")})
	w := do(t, r, http.MethodPost, "/appointments", `{"date":"2025-05-21","time_slot":"9:30 AM","payment_method":"cash"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Booking failed")
}

func TestHandler_RequiresSession(t *testing.T) {
	r, _ := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/booking/drafts", nil)
	req.Header.Set("X-Test-Anonymous", "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
