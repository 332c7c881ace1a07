package probationers

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresFindByPhoneNormalizesLookup(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "full_name", "case_number", "risk_level", "phone_number", "is_active", "created_at",
	}).AddRow("p-1", "Marcus Webb", "TC-2024-0187", "medium", "9015550142", true, created)

	mock.ExpectQuery(`SELECT .* FROM probationers`).
		WithArgs("9015550142").
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	got, err := repo.FindByPhone(context.Background(), "(901) 555-0142")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
	assert.True(t, got.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByPhoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .* FROM probationers`).
		WithArgs("9015550199").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "full_name", "case_number", "risk_level", "phone_number", "is_active", "created_at",
		}))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.FindByPhone(context.Background(), "9015550199")
	assert.ErrorIs(t, err, ErrNotFound)
}
