// Package dashboard assembles the admin and client home pages.
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/wolfman30/synapse-clinic-hub/internal/appointments"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/currency"
)

const upcomingLimit = 5

// ClientCounter reports how many client accounts exist.
type ClientCounter interface {
	CountClients(ctx context.Context) (int64, error)
}

// Stat is one summary card.
type Stat struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ActivitySnapshot summarizes process counters since start.
type ActivitySnapshot struct {
	Logins      int64 `json:"logins"`
	Bookings    int64 `json:"bookings"`
	ChatReplies int64 `json:"chat_replies"`
}

// AdminDashboard is the admin home page.
type AdminDashboard struct {
	Name     string                      `json:"name"`
	Stats    []Stat                      `json:"stats"`
	Upcoming []*appointments.Appointment `json:"upcoming"`
	Activity ActivitySnapshot            `json:"activity"`
	Nav      []session.NavItem           `json:"nav"`
}

// ClientDashboard is the patient home page.
type ClientDashboard struct {
	Name     string                      `json:"name"`
	Stats    []Stat                      `json:"stats"`
	Upcoming []*appointments.Appointment `json:"upcoming"`
	Nav      []session.NavItem           `json:"nav"`
}

// Builder reads the stores behind both dashboards.
type Builder struct {
	appointments appointments.Repository
	clients      ClientCounter
	gatherer     prometheus.Gatherer
	loc          *time.Location
	now          func() time.Time
}

func NewBuilder(appts appointments.Repository, clients ClientCounter, gatherer prometheus.Gatherer, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{appointments: appts, clients: clients, gatherer: gatherer, loc: loc, now: time.Now}
}

// Admin builds the admin dashboard for user.
func (b *Builder) Admin(ctx context.Context, user session.UserSession) (*AdminDashboard, error) {
	now := b.now().In(b.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, b.loc)

	var clients int64
	if b.clients != nil {
		n, err := b.clients.CountClients(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard: clients: %w", err)
		}
		clients = n
	}
	today, err := b.appointments.Summarize(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("dashboard: today: %w", err)
	}
	month, err := b.appointments.Summarize(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("dashboard: month: %w", err)
	}
	upcoming, err := b.appointments.ListUpcoming(ctx, appointments.ListFilter{From: now, Limit: upcomingLimit})
	if err != nil {
		return nil, fmt.Errorf("dashboard: upcoming: %w", err)
	}

	return &AdminDashboard{
		Name: user.Name,
		Stats: []Stat{
			{Title: "Total Clients", Value: strconv.FormatInt(clients, 10)},
			{Title: "Appointments Today", Value: strconv.Itoa(today.Count)},
			{Title: "Unread Messages", Value: "0"},
			{Title: "Monthly Revenue", Value: currency.FormatINR(month.Revenue)},
		},
		Upcoming: nonNil(upcoming),
		Activity: b.activity(),
		Nav:      session.NavItems(session.RoleAdmin),
	}, nil
}

// Client builds the patient dashboard for user.
func (b *Builder) Client(ctx context.Context, user session.UserSession) (*ClientDashboard, error) {
	upcoming, err := b.appointments.ListUpcoming(ctx, appointments.ListFilter{
		Email: user.Email,
		From:  b.now(),
		Limit: upcomingLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: upcoming: %w", err)
	}
	return &ClientDashboard{
		Name: user.Name,
		Stats: []Stat{
			{Title: "Upcoming Appointments", Value: strconv.Itoa(len(upcoming))},
			{Title: "Unread Messages", Value: "0"},
		},
		Upcoming: nonNil(upcoming),
		Nav:      session.NavItems(session.RoleClient),
	}, nil
}

func (b *Builder) activity() ActivitySnapshot {
	var snap ActivitySnapshot
	if b.gatherer == nil {
		return snap
	}
	families, err := b.gatherer.Gather()
	if err != nil {
		return snap
	}
	for _, mf := range families {
		switch mf.GetName() {
		case "synapse_auth_logins_total":
			snap.Logins = sumCounter(mf, "outcome", "success")
		case "synapse_booking_submissions_total":
			snap.Bookings = sumCounter(mf, "outcome", "confirmed")
		case "synapse_chat_replies_total":
			snap.ChatReplies = sumCounter(mf, "", "")
		}
	}
	return snap
}

// sumCounter adds every series of mf, or only those whose label matches.
func sumCounter(mf *dto.MetricFamily, label, value string) int64 {
	var total float64
	for _, m := range mf.GetMetric() {
		if label != "" && !hasLabel(m, label, value) {
			continue
		}
		total += m.GetCounter().GetValue()
	}
	return int64(total)
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func nonNil(in []*appointments.Appointment) []*appointments.Appointment {
	if in == nil {
		return []*appointments.Appointment{}
	}
	return in
}
