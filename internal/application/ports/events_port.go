package ports

import "time"

// Tipos de evento publicados en el feed en tiempo real.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventStockLow           = "stock.low"
)

// Event notificación de cambio publicada tras un commit exitoso.
type Event struct {
	Type     string    `json:"type"`
	OrderID  string    `json:"order_id,omitempty"`
	SectorID string    `json:"sector_id,omitempty"`
	Status   string    `json:"status,omitempty"`
	Count    int       `json:"count,omitempty"`
	At       time.Time `json:"at"`
}

// EventPublisher puerto de salida del feed de pedidos. Publish nunca bloquea al caso de uso.
type EventPublisher interface {
	Publish(evt Event)
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(Event) {}
