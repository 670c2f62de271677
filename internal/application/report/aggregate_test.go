package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func item(name string, qty int64) entity.OrderItem {
	return entity.OrderItem{ProductID: "id-" + name, ProductName: name, Quantity: d(qty)}
}

func TestLowStockYCriticos(t *testing.T) {
	products := []*entity.Product{
		{ID: "1", Name: "Seringa", CurrentStock: d(5), MinimumStock: d(5)},
		{ID: "2", Name: "Gaze", CurrentStock: d(10), MinimumStock: d(3)},
		{ID: "3", Name: "álcool", CurrentStock: d(0), MinimumStock: d(1)},
	}
	assert.Equal(t, 2, report.LowStockCount(products))
	crit := report.CriticalProducts(products)
	require.Len(t, crit, 2)
	assert.Equal(t, "álcool", crit[0].Name)
	assert.Equal(t, "Seringa", crit[1].Name)
	assert.Empty(t, report.CriticalProducts(nil))
}

func TestStatusCounts(t *testing.T) {
	orders := []*entity.Order{{Status: "pendente"}, {Status: "pendente"}, {Status: "entregue"}}
	counts := report.StatusCounts(orders)
	require.Len(t, counts, 4)
	assert.Equal(t, "pendente", counts[0].Status)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, 0, counts[1].Count)
	assert.Equal(t, 1, counts[2].Count)
}

func TestMonthlyTrends(t *testing.T) {
	orders := []*entity.Order{
		{CreatedAt: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Items: []entity.OrderItem{item("Luva", 2), item("Gaze", 3)}},
		{CreatedAt: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), Items: []entity.OrderItem{item("Luva", 1)}},
		{CreatedAt: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)},
	}
	trends := report.MonthlyTrends(orders)
	require.Len(t, trends, 2)
	assert.Equal(t, "2026-01", trends[0].Month)
	assert.Equal(t, 1, trends[0].Orders)
	assert.Equal(t, "2026-03", trends[1].Month)
	assert.Equal(t, 2, trends[1].Orders)
	assert.True(t, trends[1].Quantity.Equal(d(5)))
}

func TestTopProductBySector(t *testing.T) {
	orders := []*entity.Order{
		{SectorName: "UTI", Items: []entity.OrderItem{item("Luva", 3), item("Gaze", 3)}},
		{SectorName: "", Items: []entity.OrderItem{item("Sabão", 1)}},
		{SectorName: "UTI", Items: []entity.OrderItem{item("Máscara", 4)}},
		{SectorName: "Cozinha", Items: []entity.OrderItem{item("Detergente", 2), item("Esponja", 2)}},
	}
	top := report.TopProductBySector(orders)
	require.Len(t, top, 3)

	assert.Equal(t, "UTI", top[0].Sector)
	assert.Equal(t, "Máscara", top[0].Product)
	assert.True(t, top[0].Quantity.Equal(d(4)))

	assert.Equal(t, report.NoSector, top[1].Sector)
	assert.Equal(t, "Sabão", top[1].Product)

	// Empate: el primero encontrado.
	assert.Equal(t, "Detergente", top[2].Product)
}
