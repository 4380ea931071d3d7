// Package booking implements the appointment booking form: field selection,
// date policy, validation and hand-off of the finished appointment record.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/synapse-clinic-hub/internal/catalog"
	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
)

var bookingTracer = otel.Tracer("synapse.internal.booking")

// ClientDashboardPath is where a patient lands after booking.
const ClientDashboardPath = "/client-dashboard"

// State is the lifecycle position of a form.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateRejected   State = "rejected"
	StateConfirmed  State = "confirmed"
)

// AppointmentRecord is the finished booking handed to the completion callback.
// Price is copied from the catalog at submission time.
type AppointmentRecord struct {
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	ServiceTypeID   string        `json:"service_type_id"`
	ServiceTypeName string        `json:"service_type_name"`
	Price           int           `json:"price"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Notes           string        `json:"notes"`
	ScheduledFor    time.Time     `json:"scheduled_for"`
}

// Owner identifies the patient a booking is made for.
type Owner struct {
	Email string
	Name  string
}

// CompletionFunc receives each confirmed record. A returned error keeps the
// form editable.
type CompletionFunc func(ctx context.Context, record AppointmentRecord) error

// Outcome describes what the client should show after a submit attempt.
type Outcome struct {
	State        State                `json:"state"`
	Record       *AppointmentRecord   `json:"record,omitempty"`
	Notification *notify.Notification `json:"notification"`
	Redirect     string               `json:"redirect,omitempty"`
	Missing      []string             `json:"missing,omitempty"`
}

// Form owns one booking draft. It is not safe for concurrent use; DraftStore
// serializes access.
type Form struct {
	catalog *catalog.Catalog
	policy  DatePolicy
	onBook  CompletionFunc

	state         State
	serviceID     string
	date          time.Time
	hasDate       bool
	timeSlot      string
	paymentMethod PaymentMethod
	notes         string
}

// NewForm opens a form. preselected is the service chosen on the services
// page; an empty or unknown id starts on the catalog's first entry.
func NewForm(cat *catalog.Catalog, policy DatePolicy, preselected string, onBook CompletionFunc) *Form {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Form{
		catalog:   cat,
		policy:    policy,
		onBook:    onBook,
		state:     StateEditing,
		serviceID: cat.Resolve(preselected).ID,
	}
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	return f.state
}

func (f *Form) editable() error {
	if f.state == StateConfirmed {
		return ErrFormClosed
	}
	return nil
}

// SetService selects a catalog service.
func (f *Form) SetService(id string) error {
	if err := f.editable(); err != nil {
		return err
	}
	svc, err := f.catalog.ByID(id)
	if err != nil {
		return fmt.Errorf("booking: set service %q: %w", id, err)
	}
	f.serviceID = svc.ID
	return nil
}

// SetDate picks the appointment day. Past days and weekends are refused.
func (f *Form) SetDate(day time.Time) error {
	if err := f.editable(); err != nil {
		return err
	}
	if !f.policy.Selectable(day) {
		return fmt.Errorf("%w: %s", ErrDateUnavailable, f.policy.Day(day).Format(DateLayout))
	}
	f.date = f.policy.Day(day)
	f.hasDate = true
	return nil
}

// SetTimeSlot picks one of the fixed slots.
func (f *Form) SetTimeSlot(slot string) error {
	if err := f.editable(); err != nil {
		return err
	}
	s, err := ParseTimeSlot(slot)
	if err != nil {
		return err
	}
	f.timeSlot = s
	return nil
}

// SetPaymentMethod picks how the patient pays.
func (f *Form) SetPaymentMethod(method PaymentMethod) error {
	if err := f.editable(); err != nil {
		return err
	}
	m, err := ParsePaymentMethod(string(method))
	if err != nil {
		return err
	}
	f.paymentMethod = m
	return nil
}

// SetNotes stores free text for the doctor. Any length is accepted.
func (f *Form) SetNotes(notes string) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.notes = notes
	return nil
}

// Changes is a partial update. Nil fields are left alone.
type Changes struct {
	ServiceID     *string
	Date          *time.Time
	TimeSlot      *string
	PaymentMethod *PaymentMethod
	Notes         *string
}

// Apply sets every non-nil field in c, or none of them if any is refused.
func (f *Form) Apply(c Changes) error {
	if err := f.editable(); err != nil {
		return err
	}
	next := *f
	if c.ServiceID != nil {
		if err := next.SetService(*c.ServiceID); err != nil {
			return err
		}
	}
	if c.Date != nil {
		if err := next.SetDate(*c.Date); err != nil {
			return err
		}
	}
	if c.TimeSlot != nil {
		if err := next.SetTimeSlot(*c.TimeSlot); err != nil {
			return err
		}
	}
	if c.PaymentMethod != nil {
		if err := next.SetPaymentMethod(*c.PaymentMethod); err != nil {
			return err
		}
	}
	if c.Notes != nil {
		if err := next.SetNotes(*c.Notes); err != nil {
			return err
		}
	}
	*f = next
	return nil
}

// missing lists unset required fields in form order.
func (f *Form) missing() []string {
	var out []string
	if !f.hasDate {
		out = append(out, "date")
	}
	if f.timeSlot == "" {
		out = append(out, "time_slot")
	}
	if f.paymentMethod == "" {
		out = append(out, "payment_method")
	}
	return out
}

// Submit validates the draft and, when complete, builds the appointment
// record, hands it to the completion callback and closes the form. A rejected
// submit leaves every field as it was.
func (f *Form) Submit(ctx context.Context) (*Outcome, error) {
	if err := f.editable(); err != nil {
		return nil, err
	}
	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()
	span.SetAttributes(attribute.String("synapse.service_id", f.serviceID))

	f.state = StateValidating
	if missing := f.missing(); len(missing) > 0 {
		f.state = StateEditing
		outcome := &Outcome{
			State:        StateRejected,
			Notification: notify.Failure("Missing information", "Please fill in all the required fields."),
			Missing:      missing,
		}
		span.SetAttributes(attribute.String("synapse.missing", strings.Join(missing, ",")))
		return outcome, ErrMissingInformation
	}

	record, err := f.buildRecord()
	if err != nil {
		f.state = StateEditing
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if f.onBook != nil {
		if err := f.onBook(ctx, record); err != nil {
			f.state = StateEditing
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return &Outcome{
				State:        StateRejected,
				Notification: notify.Failure("Booking failed", "We could not save your appointment. Please try again."),
			}, errors.Join(ErrCompletionFailed, err)
		}
	}

	f.state = StateConfirmed
	return &Outcome{
		State:  StateConfirmed,
		Record: &record,
		Notification: notify.Success(
			"Appointment booked!",
			fmt.Sprintf("Your appointment has been scheduled for %s at %s.", record.Date, record.Time),
		),
		Redirect: ClientDashboardPath,
	}, nil
}

// buildRecord reads the price from the catalog entry for the current selection.
func (f *Form) buildRecord() (AppointmentRecord, error) {
	svc, err := f.catalog.ByID(f.serviceID)
	if err != nil {
		return AppointmentRecord{}, fmt.Errorf("booking: selected service %q: %w", f.serviceID, err)
	}
	hour, minute, err := slotClock(f.timeSlot)
	if err != nil {
		return AppointmentRecord{}, err
	}
	return AppointmentRecord{
		Date:            FormatLongDate(f.date),
		Time:            f.timeSlot,
		ServiceTypeID:   svc.ID,
		ServiceTypeName: svc.Title,
		Price:           svc.Price,
		PaymentMethod:   f.paymentMethod,
		Notes:           f.notes,
		ScheduledFor:    time.Date(f.date.Year(), f.date.Month(), f.date.Day(), hour, minute, 0, 0, f.date.Location()),
	}, nil
}

// Draft is a read-only view of the form for rendering.
type Draft struct {
	ID            string        `json:"id,omitempty"`
	State         State         `json:"state"`
	ServiceID     string        `json:"service_id"`
	ServiceName   string        `json:"service_name"`
	Price         int           `json:"price"`
	Date          string        `json:"date,omitempty"`
	DateLabel     string        `json:"date_label,omitempty"`
	TimeSlot      string        `json:"time_slot,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	Notes         string        `json:"notes"`
}

// Snapshot returns the current field values. Price always follows the
// selected service.
func (f *Form) Snapshot() Draft {
	d := Draft{
		State:         f.state,
		ServiceID:     f.serviceID,
		TimeSlot:      f.timeSlot,
		PaymentMethod: f.paymentMethod,
		Notes:         f.notes,
	}
	if svc, err := f.catalog.ByID(f.serviceID); err == nil {
		d.ServiceName = svc.Title
		d.Price = svc.Price
	}
	if f.hasDate {
		d.Date = f.date.Format(DateLayout)
		d.DateLabel = FormatLongDate(f.date)
	}
	return d
}
