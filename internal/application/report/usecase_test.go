package report_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/testutil/memstore"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func (c *mapCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	c.hits++
	return json.Unmarshal(raw, dest) == nil
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, report.CacheKeyPrefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	store.PutProduct(entity.Product{ID: "p1", Name: "Luva", CurrentStock: d(1), MinimumStock: d(5)})
	store.PutProduct(entity.Product{ID: "p2", Name: "Gaze", CurrentStock: d(30), MinimumStock: d(5)})
	store.PutSector(entity.Sector{ID: "S1", Name: "UTI"})
	ctx := context.Background()
	orders := store.Orders()
	mk := func(id, status string, at time.Time, qty int64) {
		require.NoError(t, orders.Create(ctx, &entity.Order{ID: id, SectorID: "S1", Status: status, CreatedAt: at}))
		require.NoError(t, orders.CreateItems(ctx, []entity.OrderItem{{ID: id + "-i", OrderID: id, ProductID: "p1", Quantity: d(qty)}}))
	}
	mk("o1", "pendente", time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local), 2)
	mk("o2", "entregue", time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local), 5)
	mk("o3", "pendente", time.Date(2026, 3, 31, 23, 0, 0, 0, time.Local), 1)
	return store
}

func TestSummary(t *testing.T) {
	store := seed(t)
	cache := &mapCache{data: map[string][]byte{}}
	uc := report.NewUseCase(store.Products(), store.Orders(), cache, time.Minute, zerolog.Nop())
	setor := access.NewActor("u-s", "S1", []string{"setor"})
	ctx := context.Background()

	out, err := uc.Summary(ctx, setor, dto.ReportQuery{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, 2, out.TotalOrders)
	require.Len(t, out.MonthlyTrends, 1)
	assert.True(t, out.MonthlyTrends[0].Quantity.Equal(d(6)))
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, "UTI", out.TopProducts[0].Sector)
	assert.Equal(t, "Luva", out.TopProducts[0].Product)

	again, err := uc.Summary(ctx, setor, dto.ReportQuery{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, out.TotalOrders, again.TotalOrders)

	filtered, err := uc.Summary(ctx, setor, dto.ReportQuery{Status: "entregue"})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.TotalOrders)
}

func TestSummary_Errores(t *testing.T) {
	store := seed(t)
	uc := report.NewUseCase(store.Products(), store.Orders(), nil, time.Minute, zerolog.Nop())
	ctx := context.Background()
	admin := access.NewActor("u", "", []string{"admin"})

	_, err := uc.Summary(ctx, access.NewActor("u", "", nil), dto.ReportQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Summary(ctx, admin, dto.ReportQuery{Status: "perdido"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	store.FailOn("orders.list", memstore.ErrInjected)
	_, err = uc.Summary(ctx, admin, dto.ReportQuery{})
	assert.ErrorIs(t, err, domain.ErrDependency)
}

func TestDashboardYLowStock(t *testing.T) {
	store := seed(t)
	uc := report.NewUseCase(store.Products(), store.Orders(), nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	dash, err := uc.Dashboard(ctx, access.NewActor("u", "", []string{"estoquista"}))
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardDTO{TotalProducts: 2, LowStockCount: 1, PendingOrders: 2, DeliveredOrders: 1}, *dash)

	low, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ID)
}

func TestDashboard_EscriturasDeProductoInvalidanCache(t *testing.T) {
	store := memstore.New()
	cache := &mapCache{data: map[string][]byte{}}
	ledger := inventory.NewLedgerUseCase(store, store.Movements(), nil, cache, zerolog.Nop())
	products := inventory.NewProductUseCase(store.Products(), ledger, zerolog.Nop())
	uc := report.NewUseCase(store.Products(), store.Orders(), cache, time.Minute, zerolog.Nop())
	admin := access.NewActor("u-admin", "", []string{"admin"})
	ctx := context.Background()

	before, err := uc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 0, before.TotalProducts)

	created, err := products.Create(ctx, admin, dto.CreateProductRequest{Name: "Luva", Unit: "cx"})
	require.NoError(t, err)

	after, err := uc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TotalProducts)
	assert.Equal(t, 1, after.LowStockCount, "0 <= 0 cuenta como estoque baixo")

	require.NoError(t, products.Delete(ctx, admin, created.ID))
	gone, err := uc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 0, gone.TotalProducts)
}
