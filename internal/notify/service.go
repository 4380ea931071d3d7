package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/wolfman30/synapse-clinic-hub/pkg/currency"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// BookingConfirmation carries what a patient needs to know about a booking.
type BookingConfirmation struct {
	To            string
	ToName        string
	Date          string
	Time          string
	ServiceName   string
	Price         int
	PaymentMethod string // display label, e.g. "Net Banking"
	Notes         string
}

// Service sends patient-facing emails.
type Service struct {
	email      EmailSender
	clinicName string
	replyTo    string
	logger     *logging.Logger
}

// ServiceConfig wires a Service. A nil Sender disables email.
type ServiceConfig struct {
	Sender     EmailSender
	ClinicName string
	ReplyTo    string
	Logger     *logging.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if strings.TrimSpace(cfg.ClinicName) == "" {
		cfg.ClinicName = defaultFromName
	}
	return &Service{
		email:      cfg.Sender,
		clinicName: cfg.ClinicName,
		replyTo:    strings.TrimSpace(cfg.ReplyTo),
		logger:     cfg.Logger,
	}
}

// SendBookingConfirmation emails the patient a summary of the booking.
func (s *Service) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	if s == nil || s.email == nil {
		return nil
	}
	if strings.TrimSpace(c.To) == "" {
		s.logger.Debug("booking confirmation skipped, no recipient")
		return nil
	}

	view := newConfirmationView(s.clinicName, c)
	html, err := renderConfirmationHTML(view)
	if err != nil {
		s.logger.Warn("booking confirmation html render failed", "error", err)
	}
	msg := EmailMessage{
		To:       c.To,
		ToName:   c.ToName,
		ReplyTo:  s.replyTo,
		Subject:  fmt.Sprintf("%s: appointment on %s at %s", s.clinicName, c.Date, c.Time),
		Body:     confirmationText(view),
		HTML:     html,
		Category: CategoryBookingConfirmation,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}
	return nil
}

type confirmationView struct {
	Greeting      string
	Clinic        string
	Date          string
	Time          string
	ServiceName   string
	Amount        string
	PaymentMethod string
	Notes         string
}

func newConfirmationView(clinicName string, c BookingConfirmation) confirmationView {
	name := strings.TrimSpace(c.ToName)
	if name == "" {
		name = "there"
	}
	return confirmationView{
		Greeting:      name,
		Clinic:        clinicName,
		Date:          c.Date,
		Time:          c.Time,
		ServiceName:   c.ServiceName,
		Amount:        currency.FormatINR(c.Price),
		PaymentMethod: c.PaymentMethod,
		Notes:         strings.TrimSpace(c.Notes),
	}
}

func confirmationText(v confirmationView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", v.Greeting)
	fmt.Fprintf(&b, "Your appointment with %s has been scheduled for %s at %s.\n\n", v.Clinic, v.Date, v.Time)
	fmt.Fprintf(&b, "Service: %s\n", v.ServiceName)
	fmt.Fprintf(&b, "Amount: %s\n", v.Amount)
	fmt.Fprintf(&b, "Payment method: %s\n", v.PaymentMethod)
	if v.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", v.Notes)
	}
	b.WriteString("\nSee you soon.\n")
	return b.String()
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<p>Hi {{.Greeting}},</p>
<p>Your appointment with {{.Clinic}} has been scheduled for <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong>.</p>
<table>
<tr><td>Service</td><td>{{.ServiceName}}</td></tr>
<tr><td>Amount</td><td>{{.Amount}}</td></tr>
<tr><td>Payment method</td><td>{{.PaymentMethod}}</td></tr>
{{- if .Notes}}
<tr><td>Notes</td><td>{{.Notes}}</td></tr>
{{- end}}
</table>
<p>See you soon.</p>
`))

func renderConfirmationHTML(v confirmationView) (string, error) {
	var buf bytes.Buffer
	if err := confirmationHTML.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
