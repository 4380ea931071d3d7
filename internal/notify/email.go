package notify

import (
	"context"
	"strings"

	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

const defaultFromName = "Synapse Clinic Hub"

// Categories tag outgoing mail for provider-side filtering.
const (
	CategoryBookingConfirmation = "booking_confirmation"
)

// EmailSender delivers one message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a single patient-facing email. Body is plain text; HTML is
// optional and sent as the alternative part.
type EmailMessage struct {
	To       string
	ToName   string
	ReplyTo  string
	Subject  string
	Body     string
	HTML     string
	Category string
}

// StubEmailSender logs instead of sending. It is used when no provider is
// configured.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email not sent, no provider configured",
		"to", maskEmail(msg.To),
		"subject", msg.Subject,
		"category", msg.Category,
	)
	return nil
}

// maskEmail keeps the first character of the local part and the domain so
// logs can be correlated without holding patient addresses.
func maskEmail(addr string) string {
	addr = strings.TrimSpace(addr)
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		if addr == "" {
			return ""
		}
		return "***"
	}
	return addr[:1] + "***" + addr[at:]
}

var _ EmailSender = (*StubEmailSender)(nil)
