package probationers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9015550142", "9015550142"},
		{"(901) 555-0142", "9015550142"},
		{"901-555-0142", "9015550142"},
		{"+1 901 555 0142", "9015550142"},
		{"19015550142", "9015550142"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), tt.in)
	}
}

func TestInMemoryFindByPhone(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	added := repo.Add(Probationer{
		FullName:   "Marcus Webb",
		CaseNumber: "TC-2024-0187",
		RiskLevel:  "medium",
		Phone:      "(901) 555-0142",
		Active:     true,
	})
	require.NotEmpty(t, added.ID)

	// Formatting variants resolve to the same record.
	got, err := repo.FindByPhone(ctx, "+19015550142")
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)
	assert.Equal(t, "Marcus", got.FirstName())

	_, err = repo.FindByPhone(ctx, "9015550199")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryInactiveNeverMatches(t *testing.T) {
	repo := NewInMemoryRepository()

	repo.Add(Probationer{FullName: "Dana Cole", Phone: "9015550190", Active: false})
	_, err := repo.FindByPhone(context.Background(), "9015550190")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryGetByID(t *testing.T) {
	repo := NewInMemoryRepository()
	added := repo.Add(Probationer{FullName: "Dana Cole", Phone: "9015550190", Active: true})

	got, err := repo.GetByID(context.Background(), added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Cole", got.FullName)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
