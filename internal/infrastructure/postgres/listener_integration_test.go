package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/ports"
)

type chanPublisher chan ports.Event

func (c chanPublisher) Publish(evt ports.Event) {
	select {
	case c <- evt:
	default:
	}
}

// Requiere ESTOQUE_TEST_DATABASE_URL apuntando a un Postgres descartable.
func TestListener_ConexionNoVuelveAlPool(t *testing.T) {
	dsn := os.Getenv("ESTOQUE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ESTOQUE_TEST_DATABASE_URL no definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 1
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	events := make(chanPublisher, 8)
	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		NewListener(pool, events, zerolog.Nop()).Run(runCtx)
		close(done)
	}()

	// Con MaxConns=1 el NOTIFY solo puede salir si el listener ya no ocupa el pool.
	payload := `{"type":"order.created","order_id":"o-int","sector_id":"","status":"pendente"}`
	var got ports.Event
	require.Eventually(t, func() bool {
		if _, err := pool.Exec(ctx, `SELECT pg_notify($1, $2)`, OrdersChannel, payload); err != nil {
			return false
		}
		select {
		case got = <-events:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)
	assert.Equal(t, "o-int", got.OrderID)

	stop()
	<-done

	var channels int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM pg_listening_channels()`).Scan(&channels))
	assert.Zero(t, channels)
}
