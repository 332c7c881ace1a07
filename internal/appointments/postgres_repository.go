package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool the repository needs; it lets tests
// inject pgxmock.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointment records in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock connection for tests.
func NewPostgresRepositoryWithDB(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const apptColumns = `id, probationer_id, scheduled_at, status, version, created_at, updated_at`

// Create inserts a new Scheduled appointment and returns the stored row.
func (r *PostgresRepository) Create(ctx context.Context, probationerID string, scheduledAt time.Time) (*Appointment, error) {
	query := `
		INSERT INTO appointments (probationer_id, scheduled_at, status, version)
		VALUES ($1, $2, 'scheduled', 1)
		RETURNING ` + apptColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, probationerID, scheduledAt))
}

// GetByID fetches an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetScheduled returns the earliest Scheduled appointment at or after from.
func (r *PostgresRepository) GetScheduled(ctx context.Context, probationerID string, from time.Time) (*Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE probationer_id = $1 AND status = 'scheduled' AND scheduled_at >= $2
		ORDER BY scheduled_at ASC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, probationerID, from))
}

// ListMissed returns Missed appointments, most recent first.
func (r *PostgresRepository) ListMissed(ctx context.Context, probationerID string) ([]*Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE probationer_id = $1 AND status = 'missed'
		ORDER BY scheduled_at DESC
	`
	rows, err := r.db.Query(ctx, query, probationerID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list missed: %w", err)
	}
	defer rows.Close()

	var missed []*Appointment
	for rows.Next() {
		appt, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		missed = append(missed, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list missed: %w", err)
	}
	return missed, nil
}

// UpdateStatus applies the compare-and-swap change in a single statement: the
// WHERE clause pins both the Scheduled status and the expected version, so a
// transition that lost a race affects zero rows and reports
// ErrInvalidTransition.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, to Status, fromVersion int64) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND status = 'scheduled' AND version = $3
		RETURNING ` + apptColumns + `
	`
	appt, err := r.scanOne(r.db.QueryRow(ctx, query, id, string(to), fromVersion))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Zero rows updated: distinguish a missing row from a lost race.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrInvalidTransition
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(
		&a.ID,
		&a.ProbationerID,
		&a.ScheduledAt,
		&a.Status,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: scan failed: %w", err)
	}
	return &a, nil
}
