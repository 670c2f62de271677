package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/ports"
)

// OrdersChannel canal NOTIFY emitido por el trigger de pedidos.
const OrdersChannel = "orders_events"

const (
	listenMinBackoff = time.Second
	listenMaxBackoff = 30 * time.Second
)

// Listener reenvía las notificaciones de orders_events al publicador de eventos.
// Mantiene una conexión dedicada y se reconecta con backoff exponencial.
type Listener struct {
	pool      *pgxpool.Pool
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewListener construye el listener.
func NewListener(pool *pgxpool.Pool, publisher ports.EventPublisher, log zerolog.Logger) *Listener {
	return &Listener{pool: pool, publisher: publisher, log: log}
}

// Run bloquea hasta que ctx se cancela.
func (l *Listener) Run(ctx context.Context) {
	backoff := listenMinBackoff
	for {
		start := time.Now()
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(start) > listenMaxBackoff {
			backoff = listenMinBackoff
		}
		l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("listener de pedidos desconectado")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, listenMaxBackoff)
	}
}

// listen saca la conexión del pool (Hijack) y la cierra al salir: una conexión con LISTEN
// activo nunca vuelve a manos de otras consultas.
func (l *Listener) listen(ctx context.Context) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	conn := pooled.Hijack()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+OrdersChannel); err != nil {
		return err
	}
	l.log.Info().Str("channel", OrdersChannel).Msg("escuchando notificaciones de pedidos")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		evt, ok := decodeNotification(n.Payload)
		if !ok {
			l.log.Warn().Str("payload", n.Payload).Msg("notificación de pedido inválida")
			continue
		}
		l.publisher.Publish(evt)
	}
}

// decodeNotification convierte el JSON del trigger en un evento.
func decodeNotification(payload string) (ports.Event, bool) {
	var evt ports.Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil || evt.Type == "" || evt.OrderID == "" {
		return ports.Event{}, false
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	return evt, true
}
