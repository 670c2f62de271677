package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/period"
	"github.com/jhoicas/estoque-api/internal/domain"
)

func TestParse_FinInclusivo(t *testing.T) {
	r, err := period.Parse("2026-03-01", "2026-03-31", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, r.From)
	require.NotNil(t, r.To)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *r.From)
	assert.True(t, r.Contains(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)))
}

func TestParse_Vacio(t *testing.T) {
	r, err := period.Parse("", " ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)
	assert.True(t, r.Contains(time.Now()))
}

func TestParse_Invalido(t *testing.T) {
	_, err := period.Parse("01/03/2026", "", time.UTC)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = period.Parse("2026-03-10", "2026-03-01", time.UTC)
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "end_date", fe.Field)
}

func TestParse_RFC3339(t *testing.T) {
	r, err := period.Parse("", "2026-03-01T10:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), r.To.UTC())
}
