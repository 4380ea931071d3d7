package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/synapse-clinic-hub/internal/observability/metrics"
)

// DefaultReplyDelay is how long the assistant "thinks" before answering.
const DefaultReplyDelay = 800 * time.Millisecond

var (
	ErrBlankMessage = errors.New("chat: blank message")
	ErrWidgetClosed = errors.New("chat: widget closed")
)

// Message is one entry in a conversation. IDs start at 1 and follow the
// position in the log.
type Message struct {
	ID     int       `json:"id"`
	Text   string    `json:"text"`
	IsUser bool      `json:"is_user"`
	SentAt time.Time `json:"sent_at"`
}

type pendingReply struct {
	timer   *time.Timer
	done    chan Message
	text    string
	keyword string
}

// WidgetOptions configures a Widget.
type WidgetOptions struct {
	Delay   time.Duration
	Metrics *metrics.ClinicMetrics
	// OnReply is called outside the widget lock after each reply is appended.
	OnReply func(Message)
}

// Widget holds one conversation and its scheduled replies.
type Widget struct {
	responder *Responder
	opts      WidgetOptions
	now       func() time.Time

	mu       sync.Mutex
	messages []Message
	pending  map[*pendingReply]struct{}
	closed   bool
}

// NewWidget starts a conversation seeded with the greeting. A negative delay
// is treated as zero.
func NewWidget(responder *Responder, opts WidgetOptions) *Widget {
	if responder == nil {
		responder = DefaultResponder()
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	w := &Widget{
		responder: responder,
		opts:      opts,
		now:       time.Now,
		pending:   make(map[*pendingReply]struct{}),
	}
	w.messages = []Message{{ID: 1, Text: Greeting, SentAt: w.now()}}
	return w
}

// Send appends the user's message and schedules the reply. The returned
// channel yields the reply once it is appended and is closed without a value
// if the widget closes first.
func (w *Widget) Send(text string) (Message, <-chan Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, nil, ErrBlankMessage
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return Message{}, nil, ErrWidgetClosed
	}

	msg := Message{ID: len(w.messages) + 1, Text: text, IsUser: true, SentAt: w.now()}
	w.messages = append(w.messages, msg)

	p := &pendingReply{done: make(chan Message, 1), text: w.responder.fallback}
	if rule, ok := w.responder.Match(text); ok {
		p.text = rule.Reply
		p.keyword = rule.Keyword
	}
	w.pending[p] = struct{}{}
	p.timer = time.AfterFunc(w.opts.Delay, func() { w.deliver(p) })
	return msg, p.done, nil
}

func (w *Widget) deliver(p *pendingReply) {
	w.mu.Lock()
	if _, ok := w.pending[p]; !ok {
		w.mu.Unlock()
		return
	}
	delete(w.pending, p)
	reply := Message{ID: len(w.messages) + 1, Text: p.text, SentAt: w.now()}
	w.messages = append(w.messages, reply)
	onReply := w.opts.OnReply
	w.mu.Unlock()

	p.done <- reply
	close(p.done)
	w.opts.Metrics.ObserveChatReply(p.keyword)
	if onReply != nil {
		onReply(reply)
	}
}

// Messages returns the conversation so far.
func (w *Widget) Messages() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Message, len(w.messages))
	copy(out, w.messages)
	return out
}

// Pending reports how many replies are still scheduled.
func (w *Widget) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Close cancels every scheduled reply. It is safe to call more than once.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for p := range w.pending {
		p.timer.Stop()
		close(p.done)
		delete(w.pending, p)
	}
}
