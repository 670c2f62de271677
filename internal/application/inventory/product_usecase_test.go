package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/testutil/memstore"
)

func newProducts(t *testing.T) (*inventory.ProductUseCase, *memstore.Store) {
	t.Helper()
	ledger, store, _ := newLedger(t)
	return inventory.NewProductUseCase(store.Products(), ledger, zerolog.Nop()), store
}

func ptr[T any](v T) *T { return &v }

func TestProductCreate_EstoqueInicial(t *testing.T) {
	uc, store := newProducts(t)
	out, err := uc.Create(context.Background(), estoquista, dto.CreateProductRequest{
		Name: " Luva ", Unit: "cx", CurrentStock: d(12), MinimumStock: d(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Luva", out.Name)
	assert.True(t, out.CurrentStock.Equal(d(12)))
	assert.False(t, out.LowStock)

	movs := store.MovementsOf(out.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].Type)
	assert.Equal(t, inventory.NoteInitialStock, movs[0].Notes)
	assert.True(t, movs[0].PreviousStock.IsZero())
}

func TestProductCreate_SinEstoqueNoGeneraMovimiento(t *testing.T) {
	uc, store := newProducts(t)
	out, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{Name: "Luva", Unit: "cx"})
	require.NoError(t, err)
	assert.True(t, out.LowStock)
	assert.Equal(t, 0, store.MovementCount())
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc, _ := newProducts(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, setor, dto.CreateProductRequest{Name: "x", Unit: "un"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{Unit: "un"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{Name: "x", Unit: "un", CurrentStock: d(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductCreate_FallaDelMovimientoRevierteProducto(t *testing.T) {
	uc, store := newProducts(t)
	store.FailOn("movements.create", memstore.ErrInjected)
	_, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{Name: "Luva", Unit: "cx", CurrentStock: d(3)})
	require.ErrorIs(t, err, domain.ErrDependency)

	list, err := uc.List(context.Background(), admin, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductUpdate_ConciliaEstoque(t *testing.T) {
	uc, store := newProducts(t)
	seedProduct(store, "p1", 10)
	ctx := context.Background()

	out, err := uc.Update(ctx, gerente, "p1", dto.UpdateProductRequest{Name: ptr("Papel Ofício"), CurrentStock: ptr(d(14))})
	require.NoError(t, err)
	assert.Equal(t, "Papel Ofício", out.Name)
	assert.True(t, out.CurrentStock.Equal(d(14)))

	movs := store.MovementsOf("p1")
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d(4)))
	assert.Equal(t, inventory.NoteManualAdjust, movs[0].Notes)

	_, err = uc.Update(ctx, gerente, "p1", dto.UpdateProductRequest{MinimumStock: ptr(decimal.NewFromInt(20))})
	require.NoError(t, err)
	assert.Len(t, store.MovementsOf("p1"), 1)

	_, err = uc.Update(ctx, gerente, "nope", dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDeleteYList(t *testing.T) {
	uc, store := newProducts(t)
	seedProduct(store, "p1", 1)
	store.PutProduct(entity.Product{ID: "p2", Name: "Sabão", Unit: "un", CurrentStock: d(50), MinimumStock: d(5)})
	ctx := context.Background()

	low, err := uc.List(ctx, setor, dto.ProductListQuery{Stock: "low"})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ID)

	_, err = uc.List(ctx, setor, dto.ProductListQuery{Stock: "zero"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.ErrorIs(t, uc.Delete(ctx, gerente, "p1"), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, admin, "p1"))
	assert.ErrorIs(t, uc.Delete(ctx, admin, "p1"), domain.ErrNotFound)

	_, err = uc.GetByID(ctx, estoquista, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := uc.GetByID(ctx, estoquista, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Sabão", got.Name)
}
