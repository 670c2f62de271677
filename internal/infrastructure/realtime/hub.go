// Package realtime distribuye eventos de pedidos y estoque a los clientes conectados (SSE).
package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/ports"
)

var _ ports.EventPublisher = (*Hub)(nil)

// DefaultBuffer eventos en cola por suscriptor antes de descartar.
const DefaultBuffer = 16

// Filter decide si un evento se entrega a un suscriptor.
type Filter func(ports.Event) bool

type subscriber struct {
	ch     chan ports.Event
	filter Filter
}

// Hub fan-out en memoria. Publish nunca bloquea: si la cola de un suscriptor está llena el evento se descarta para él.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscriber
	nextID  uint64
	buffer  int
	closed  bool
	dropped atomic.Uint64
	log     zerolog.Logger
}

// NewHub construye el hub. buffer <= 0 usa DefaultBuffer.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{subs: map[uint64]*subscriber{}, buffer: buffer, log: log}
}

// Subscribe registra un suscriptor. El canal se cierra al llamar cancel o Close.
func (h *Hub) Subscribe(filter Filter) (<-chan ports.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan ports.Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.nextID++
	id := h.nextID
	h.subs[id] = &subscriber{ch: ch, filter: filter}

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.unsubscribe(id) })
	}
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(s.ch)
	}
}

// Publish entrega evt a cada suscriptor cuyo filtro lo acepte.
func (h *Hub) Publish(evt ports.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if s.filter != nil && !s.filter(evt) {
			continue
		}
		select {
		case s.ch <- evt:
		default:
			h.dropped.Add(1)
			h.log.Warn().Str("type", evt.Type).Str("order_id", evt.OrderID).Msg("suscriptor lento, evento descartado")
		}
	}
}

// Subscribers cantidad de suscriptores activos.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped eventos descartados por colas llenas.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Close cierra todos los canales; Publish posterior no entrega nada.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.ch)
	}
}
