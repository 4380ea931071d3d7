package appointments

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/synapse-clinic-hub/internal/booking"
	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
	"github.com/wolfman30/synapse-clinic-hub/internal/observability/metrics"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

var appointmentsTracer = otel.Tracer("synapse.internal.appointments")

// Notifier sends the booking confirmation email.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation) error
}

// Service turns confirmed booking records into stored appointments.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.ClinicMetrics
	logger   *logging.Logger
}

func NewService(repo Repository, notifier Notifier, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		repo = NewInMemoryRepository()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, notifier: notifier, metrics: m, logger: logger}
}

// Repository exposes the underlying store for read paths.
func (s *Service) Repository() Repository {
	return s.repo
}

// Book stores rec for owner and emails a confirmation. A failed email is
// logged; the booking still stands.
func (s *Service) Book(ctx context.Context, owner booking.Owner, rec booking.AppointmentRecord) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("service_id", rec.ServiceTypeID),
		attribute.Int("price", rec.Price),
	)

	appt := &Appointment{
		Email:         owner.Email,
		ServiceID:     rec.ServiceTypeID,
		ServiceName:   rec.ServiceTypeName,
		Price:         rec.Price,
		PaymentMethod: string(rec.PaymentMethod),
		Notes:         rec.Notes,
		DateLabel:     rec.Date,
		TimeSlot:      rec.Time,
		ScheduledFor:  rec.ScheduledFor,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		s.metrics.ObserveBooking("failed", rec.ServiceTypeID, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return fmt.Errorf("appointments: book: %w", err)
	}
	s.metrics.ObserveBooking("confirmed", rec.ServiceTypeID, rec.Price)
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"service_id", rec.ServiceTypeID,
		"scheduled_for", rec.ScheduledFor,
	)

	if s.notifier != nil {
		err := s.notifier.SendBookingConfirmation(ctx, notify.BookingConfirmation{
			To:            owner.Email,
			ToName:        owner.Name,
			Date:          rec.Date,
			Time:          rec.Time,
			ServiceName:   rec.ServiceTypeName,
			Price:         rec.Price,
			PaymentMethod: rec.PaymentMethod.Label(),
			Notes:         rec.Notes,
		})
		if err != nil {
			span.AddEvent("confirmation email failed")
			s.logger.Warn("booking confirmation email not sent", "error", err, "appointment_id", appt.ID)
		}
	}
	return nil
}
