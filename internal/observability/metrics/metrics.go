package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters for the patient-facing flows.
type ClinicMetrics struct {
	loginsTotal        *prometheus.CounterVec
	bookingsTotal      *prometheus.CounterVec
	registrationsTotal *prometheus.CounterVec
	chatRepliesTotal   *prometheus.CounterVec
	bookingValue       prometheus.Counter
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome and role",
		}, []string{"outcome", "role"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking form submissions by outcome",
		}, []string{"outcome", "service_id"}),
		registrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "accounts",
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome",
		}, []string{"outcome"}),
		chatRepliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Assistant replies by matched keyword",
		}, []string{"keyword"}),
		bookingValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "booking",
			Name:      "confirmed_value_rupees_total",
			Help:      "Sum of prices of confirmed bookings",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.loginsTotal, m.bookingsTotal, m.registrationsTotal, m.chatRepliesTotal, m.bookingValue)
	return m
}

func (m *ClinicMetrics) ObserveLogin(outcome, role string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(outcome, role).Inc()
}

func (m *ClinicMetrics) ObserveBooking(outcome, serviceID string, price int) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome, serviceID).Inc()
	if outcome == "confirmed" && price > 0 {
		m.bookingValue.Add(float64(price))
	}
}

func (m *ClinicMetrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveChatReply counts a reply; an empty keyword means the fallback answer.
func (m *ClinicMetrics) ObserveChatReply(keyword string) {
	if m == nil {
		return
	}
	if keyword == "" {
		keyword = "default"
	}
	m.chatRepliesTotal.WithLabelValues(keyword).Inc()
}
