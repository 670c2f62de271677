package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

func TestDecodeNotification(t *testing.T) {
	evt, ok := decodeNotification(`{"type":"order.status_changed","order_id":"o1","sector_id":"","status":"aprovado","at":"2025-03-01T10:00:00.123456+00:00"}`)
	assert.True(t, ok)
	assert.Equal(t, ports.EventOrderStatusChanged, evt.Type)
	assert.Equal(t, "o1", evt.OrderID)
	assert.Empty(t, evt.SectorID)
	assert.Equal(t, "aprovado", evt.Status)
	assert.Equal(t, 2025, evt.At.Year())

	_, ok = decodeNotification(`not json`)
	assert.False(t, ok)

	_, ok = decodeNotification(`{"type":"order.created"}`)
	assert.False(t, ok, "sin order_id")

	evt, ok = decodeNotification(`{"type":"order.created","order_id":"o2"}`)
	assert.True(t, ok)
	assert.False(t, evt.At.IsZero())
}

func TestWhereBuilder(t *testing.T) {
	var w where
	assert.Empty(t, w.String())

	w.raw(`m.deleted_at IS NULL`)
	w.add(`m.sector_id = $%d`, "s1")
	w.add(`(name ILIKE '%%' || $%[1]d || '%%' OR description ILIKE '%%' || $%[1]d || '%%')`, "cafe")

	assert.Equal(t, ` WHERE m.deleted_at IS NULL AND m.sector_id = $1 AND (name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')`, w.String())
	assert.Equal(t, []any{"s1", "cafe"}, w.args)
}

func TestNullableAndDeref(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", nullable("x"))
	s := "y"
	assert.Equal(t, "y", deref(&s))
	assert.Empty(t, deref(nil))
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	m := NewMigrator(nil, zerolog.Nop())
	names, err := m.names()
	assert.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_orders_notify.sql"}, names)
}

func TestIsForeignKeyOn(t *testing.T) {
	sectorFK := fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23503", ConstraintName: "orders_sector_id_fkey"})
	assert.True(t, isForeignKeyOn(sectorFK, "sector_id"))
	assert.False(t, isForeignKeyOn(sectorFK, "product_id"))
	assert.False(t, isForeignKeyOn(&pgconn.PgError{Code: "23505", ConstraintName: "orders_sector_id_fkey"}, "sector_id"))
	assert.False(t, isForeignKeyOn(errors.New("23503"), "sector_id"))
}

// Un id mal formado se resuelve como inexistente sin llegar a la base: Querier nil
// haría panic si se ejecutara alguna consulta.
func TestMalformedIDsNoLleganAPostgres(t *testing.T) {
	ctx := context.Background()
	assert.True(t, isUUID("7f1c2d3e-0000-4000-8000-000000000001"))
	assert.False(t, isUUID("abc"))

	products := NewProductRepository(nil)
	p, err := products.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)
	p, err = products.GetForUpdate(ctx, "1; DROP TABLE products")
	require.NoError(t, err)
	assert.Nil(t, p)

	o, err := NewOrderRepository(nil).GetForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, o)

	m, err := NewStockMovementRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, m)

	s, err := NewSectorRepository(nil).GetByID(ctx, "S1")
	require.NoError(t, err)
	assert.Nil(t, s)

	pr, err := NewPrinterRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, pr)

	u, err := NewUserRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, u)

	list, err := NewStockMovementRepository(nil).List(ctx, repository.MovementQuery{ProductID: "abc"})
	require.NoError(t, err)
	assert.Empty(t, list)

	orders, err := NewOrderRepository(nil).List(ctx, repository.OrderQuery{SectorID: "abc"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}
