package probationers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool the repository needs; it lets tests
// inject pgxmock.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores probationer records in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("probationers: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock connection for tests.
func NewPostgresRepositoryWithDB(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, full_name, case_number, risk_level, phone_number, is_active, created_at`

// FindByPhone returns the active record matching the normalized phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (*Probationer, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM probationers
		WHERE phone_digits = $1 AND is_active
	`
	return r.scanOne(r.db.QueryRow(ctx, query, NormalizePhone(phone)))
}

// GetByID fetches a record by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Probationer, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM probationers
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Probationer, error) {
	var p Probationer
	if err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.CaseNumber,
		&p.RiskLevel,
		&p.Phone,
		&p.Active,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("probationers: select failed: %w", err)
	}
	return &p, nil
}
