// Package bookings keeps an audit log of completed bookings in Postgres.
// The calendar stays the source of truth; this log only exists so the clinic
// can review what the bot booked without crawling calendar history.
package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one completed booking.
type Record struct {
	ID              uuid.UUID
	PatientName     string
	PatientPhone    string
	PatientEmail    string
	Service         string
	ScheduledFor    time.Time
	CalendarEventID string
	CreatedAt       time.Time
}

// DB is the slice of pgxpool.Pool the repository uses; pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository provides persistence helpers for the booking log.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db DB) *Repository {
	return &Repository{db: db}
}

// Record inserts one completed booking row.
func (r *Repository) Record(ctx context.Context, rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (id, patient_name, patient_phone, patient_email, service, scheduled_for, calendar_event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		rec.ID, rec.PatientName, rec.PatientPhone, rec.PatientEmail,
		rec.Service, rec.ScheduledFor.UTC(), rec.CalendarEventID,
	)
	if err != nil {
		return fmt.Errorf("bookings: insert: %w", err)
	}
	return nil
}

// Recent returns the latest bookings, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, patient_name, patient_phone, patient_email, service, scheduled_for, calendar_event_id, created_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("bookings: list recent: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.PatientName, &rec.PatientPhone, &rec.PatientEmail,
			&rec.Service, &rec.ScheduledFor, &rec.CalendarEventID, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("bookings: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: iterate: %w", err)
	}
	return records, nil
}
