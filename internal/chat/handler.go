package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// Handler serves the chat widget over REST and websocket.
type Handler struct {
	registry  *Registry
	responder *Responder
	opts      WidgetOptions
	logger    *logging.Logger
}

func NewHandler(registry *Registry, responder *Responder, opts WidgetOptions, logger *logging.Logger) *Handler {
	if responder == nil {
		responder = DefaultResponder()
	}
	if registry == nil {
		registry = NewRegistry(responder, opts)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{registry: registry, responder: responder, opts: opts, logger: logger}
}

// InboundMessage is what the socket client sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what the socket client receives.
type OutboundMessage struct {
	Type     string    `json:"type"` // "history", "message", "typing", "pong", "error"
	Message  *Message  `json:"message,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Text     string    `json:"text,omitempty"`
}

func owner(r *http.Request) string {
	if user, ok := session.FromContext(r.Context()); ok {
		return user.Email
	}
	return ""
}

// Open handles POST /chat/sessions.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	id, widget := h.registry.Open(owner(r))
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       id,
		"messages": widget.Messages(),
	})
}

// History handles GET /chat/sessions/{id}/messages.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.registry.Get(chi.URLParam(r, "id"), owner(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chat session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": widget.Messages()})
}

type sendRequest struct {
	Text string `json:"text"`
}

// Send handles POST /chat/sessions/{id}/messages. It waits for the reply
// unless the request ends first, in which case the reply still lands in the
// history.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.registry.Get(chi.URLParam(r, "id"), owner(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chat session not found"})
		return
	}
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	msg, replies, err := widget.Send(req.Text)
	switch {
	case errors.Is(err, ErrBlankMessage):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, ErrWidgetClosed):
		writeJSON(w, http.StatusGone, map[string]string{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("chat send failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	select {
	case reply, ok := <-replies:
		if !ok {
			writeJSON(w, http.StatusGone, map[string]any{"message": msg, "error": ErrWidgetClosed.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": msg, "reply": reply})
	case <-r.Context().Done():
		writeJSON(w, http.StatusAccepted, map[string]any{"message": msg})
	}
}

// Close handles DELETE /chat/sessions/{id}.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Remove(chi.URLParam(r, "id"), owner(r)) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chat session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleWebSocket serves GET /chat/ws. Each connection owns a fresh
// conversation that ends with the connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(h.serveWS).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn) {
	var writeMu sync.Mutex
	send := func(msg OutboundMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := websocket.JSON.Send(conn, msg); err != nil {
			h.logger.Debug("chat: socket write failed", "error", err)
		}
	}

	opts := h.opts
	opts.OnReply = func(m Message) {
		send(OutboundMessage{Type: "message", Message: &m})
	}
	widget := NewWidget(h.responder, opts)
	defer widget.Close()

	send(OutboundMessage{Type: "history", Messages: widget.Messages()})
	h.logger.Debug("chat: connection opened")

	for {
		var in InboundMessage
		if err := websocket.JSON.Receive(conn, &in); err != nil {
			h.logger.Debug("chat: connection closed", "error", err)
			return
		}
		switch in.Type {
		case "ping":
			send(OutboundMessage{Type: "pong"})
		case "message":
			msg, _, err := widget.Send(in.Text)
			if errors.Is(err, ErrBlankMessage) {
				continue
			}
			if err != nil {
				send(OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
				continue
			}
			send(OutboundMessage{Type: "message", Message: &msg})
			send(OutboundMessage{Type: "typing"})
		}
	}
}

// CloseAll ends every REST conversation. Used on shutdown.
func (h *Handler) CloseAll() {
	h.registry.CloseAll()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
