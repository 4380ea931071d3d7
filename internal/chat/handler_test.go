package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

func newTestRouter(delay time.Duration) (http.Handler, *Handler) {
	h := NewHandler(nil, nil, WidgetOptions{Delay: delay}, logging.Discard())
	r := chi.NewRouter()
	r.Post("/chat/sessions", h.Open)
	r.Get("/chat/sessions/{id}/messages", h.History)
	r.Post("/chat/sessions/{id}/messages", h.Send)
	r.Delete("/chat/sessions/{id}", h.Close)
	r.Get("/chat/ws", h.HandleWebSocket)
	return r, h
}

func openSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		ID       string    `json:"id"`
		Messages []Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Messages, 1)
	assert.Equal(t, Greeting, body.Messages[0].Text)
	return body.ID
}

func TestHandler_SendWaitsForReply(t *testing.T) {
	r, _ := newTestRouter(5 * time.Millisecond)
	id := openSession(t, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat/sessions/"+id+"/messages", strings.NewReader(`{"text":"I have a headache"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message Message `json:"message"`
		Reply   Message `json:"reply"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 2, body.Message.ID)
	assert.Equal(t, 3, body.Reply.ID)
	assert.Equal(t, replyFor("headache"), body.Reply.Text)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/sessions/"+id+"/messages", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "I have a headache")
}

func TestHandler_SendBoundedByRequestContext(t *testing.T) {
	r, _ := newTestRouter(time.Hour)
	id := openSession(t, r)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/chat/sessions/"+id+"/messages", strings.NewReader(`{"text":"fee"}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestHandler_BlankAndUnknown(t *testing.T) {
	r, _ := newTestRouter(0)
	id := openSession(t, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat/sessions/"+id+"/messages", strings.NewReader(`{"text":"  "}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/sessions/missing/messages", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CloseSession(t *testing.T) {
	r, h := newTestRouter(time.Hour)
	id := openSession(t, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/chat/sessions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, h.registry.Len())
}

func TestHandler_WebSocket(t *testing.T) {
	r, _ := newTestRouter(20 * time.Millisecond)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	var out OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "history", out.Type)
	require.Len(t, out.Messages, 1)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	require.NoError(t, websocket.JSON.Receive(conn, &out))
	assert.Equal(t, "pong", out.Type)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "Tell me about astrology"}))

	var got []OutboundMessage
	for len(got) < 3 {
		var m OutboundMessage
		require.NoError(t, websocket.JSON.Receive(conn, &m))
		got = append(got, m)
	}
	assert.Equal(t, "message", got[0].Type)
	assert.True(t, got[0].Message.IsUser)
	assert.Equal(t, "typing", got[1].Type)
	assert.Equal(t, "message", got[2].Type)
	assert.Equal(t, replyFor("astrology"), got[2].Message.Text)
}
