package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the appointments table.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) error {
	if appt.Email == "" {
		return ErrMissingOwner
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	query := `
		INSERT INTO appointments (id, email, service_id, service_name, price, payment_method, notes, date_label, time_slot, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		appt.ID,
		appt.Email,
		appt.ServiceID,
		appt.ServiceName,
		appt.Price,
		appt.PaymentMethod,
		appt.Notes,
		appt.DateLabel,
		appt.TimeSlot,
		appt.ScheduledFor,
	).Scan(&createdAt); err != nil {
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	appt.CreatedAt = createdAt
	return nil
}

func (r *PostgresRepository) ListUpcoming(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, email, service_id, service_name, price, payment_method, notes, date_label, time_slot, scheduled_for, created_at
		FROM appointments
		WHERE scheduled_for >= $1 AND ($2 = '' OR email = $2)
		ORDER BY scheduled_for ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, filter.From, filter.Email, limit)
	if err != nil {
		return nil, fmt.Errorf("appointments: list upcoming: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID,
			&a.Email,
			&a.ServiceID,
			&a.ServiceName,
			&a.Price,
			&a.PaymentMethod,
			&a.Notes,
			&a.DateLabel,
			&a.TimeSlot,
			&a.ScheduledFor,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list upcoming: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Summarize(ctx context.Context, from, to time.Time) (Summary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(price), 0)
		FROM appointments
		WHERE scheduled_for >= $1 AND scheduled_for < $2
	`
	var s Summary
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&s.Count, &s.Revenue); err != nil {
		return Summary{}, fmt.Errorf("appointments: summarize: %w", err)
	}
	return s, nil
}
