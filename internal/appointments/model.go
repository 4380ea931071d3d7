// Package appointments stores confirmed bookings and answers the dashboard
// queries built on them.
package appointments

import (
	"errors"
	"time"
)

var ErrMissingOwner = errors.New("appointments: owner email required")

// Appointment is a persisted booking.
type Appointment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	ServiceID     string    `json:"service_type_id"`
	ServiceName   string    `json:"service_type_name"`
	Price         int       `json:"price"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
	DateLabel     string    `json:"date"`
	TimeSlot      string    `json:"time"`
	ScheduledFor  time.Time `json:"scheduled_for"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListFilter selects upcoming appointments. An empty Email matches everyone.
type ListFilter struct {
	Email string
	From  time.Time
	Limit int
}

// Summary aggregates appointments in a time window.
type Summary struct {
	Count   int `json:"count"`
	Revenue int `json:"revenue"`
}
