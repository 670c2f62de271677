package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func TestShortID(t *testing.T) {
	assert.Equal(t, "1A2B3C4D", ShortID("1a2b3c4d-0000-0000-0000-000000000000"))
	assert.Equal(t, "ABC", ShortID("abc"))
}

func TestRenderOrder(t *testing.T) {
	delivered := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &entity.Order{
		ID:              "1a2b3c4d-0000-0000-0000-000000000000",
		Status:          entity.OrderStatusEntregue,
		Notes:           "Urgente",
		CreatedAt:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		DeliveredAt:     &delivered,
		SectorName:      "Cozinha",
		RequesterName:   "Ana",
		DeliveredByName: "Bruno",
		Items: []entity.OrderItem{
			{ProductName: "Arroz", ProductUnit: "kg", Quantity: decimal.NewFromInt(5)},
			{ProductName: "Óleo", ProductUnit: "un", Quantity: decimal.RequireFromString("1.5")},
		},
	}

	b, err := NewTicketRenderer(nil).RenderOrder(context.Background(), o)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.Equal(t, "%PDF", string(b[:4]))
}
