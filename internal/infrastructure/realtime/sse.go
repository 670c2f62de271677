package realtime

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain/access"
)

// ForActor filtro de visibilidad: un actor setor solo recibe pedidos de su sector;
// los avisos de estoque bajo van a quien gestiona productos.
func ForActor(actor access.Actor) Filter {
	return func(evt ports.Event) bool {
		if !actor.HasRole {
			return false
		}
		if evt.Type == ports.EventStockLow {
			return actor.CanManageProducts()
		}
		return actor.CanSeeSector(evt.SectorID)
	}
}

// WriteEvent escribe un evento SSE con nombre y payload JSON y hace flush.
func WriteEvent(w *bufio.Writer, evt ports.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, payload); err != nil {
		return err
	}
	return w.Flush()
}

// WriteComment escribe un comentario SSE (heartbeat).
func WriteComment(w *bufio.Writer, msg string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", msg); err != nil {
		return err
	}
	return w.Flush()
}
