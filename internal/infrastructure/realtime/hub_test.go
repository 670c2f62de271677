package realtime

import (
	"bufio"
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain/access"
)

func recv(t *testing.T, ch <-chan ports.Event) ports.Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return evt
	case <-time.After(time.Second):
		t.Fatal("evento no recibido")
	}
	return ports.Event{}
}

func TestHub_FanOutWithFilters(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	all, cancelAll := h.Subscribe(nil)
	defer cancelAll()
	onlyS1, cancelS1 := h.Subscribe(func(e ports.Event) bool { return e.SectorID == "s1" })
	defer cancelS1()

	h.Publish(ports.Event{Type: ports.EventOrderCreated, OrderID: "o1", SectorID: "s2"})
	h.Publish(ports.Event{Type: ports.EventOrderCreated, OrderID: "o2", SectorID: "s1"})

	assert.Equal(t, "o1", recv(t, all).OrderID)
	assert.Equal(t, "o2", recv(t, all).OrderID)
	assert.Equal(t, "o2", recv(t, onlyS1).OrderID)
	assert.Empty(t, onlyS1)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := NewHub(1, zerolog.Nop())
	_, cancel := h.Subscribe(nil)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.Publish(ports.Event{Type: ports.EventOrderCreated})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish bloqueó")
	}
	assert.Equal(t, uint64(9), h.Dropped())
}

func TestHub_CancelAndClose(t *testing.T) {
	h := NewHub(0, zerolog.Nop())
	ch, cancel := h.Subscribe(nil)
	assert.Equal(t, 1, h.Subscribers())
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers())

	ch2, _ := h.Subscribe(nil)
	h.Close()
	_, ok = <-ch2
	assert.False(t, ok)

	ch3, _ := h.Subscribe(nil)
	_, ok = <-ch3
	assert.False(t, ok, "suscripción tras Close llega cerrada")
	h.Publish(ports.Event{Type: ports.EventOrderCreated})
}

func TestHub_ConcurrentPublishSubscribe(t *testing.T) {
	h := NewHub(64, zerolog.Nop())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, cancel := h.Subscribe(nil)
			defer cancel()
			select {
			case <-ch:
			case <-time.After(10 * time.Millisecond):
			}
		}()
		go func() {
			defer wg.Done()
			h.Publish(ports.Event{Type: ports.EventOrderStatusChanged})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Subscribers())
}

func TestForActor(t *testing.T) {
	setor := access.Actor{UserID: "u1", Role: access.RoleSetor, HasRole: true, SectorID: "s1"}
	estoquista := access.Actor{UserID: "u2", Role: access.RoleEstoquista, HasRole: true}
	noRole := access.Actor{UserID: "u3"}

	own := ports.Event{Type: ports.EventOrderStatusChanged, SectorID: "s1"}
	other := ports.Event{Type: ports.EventOrderCreated, SectorID: "s2"}
	low := ports.Event{Type: ports.EventStockLow, Count: 3}

	assert.True(t, ForActor(setor)(own))
	assert.False(t, ForActor(setor)(other))
	assert.False(t, ForActor(setor)(low))

	assert.True(t, ForActor(estoquista)(own))
	assert.True(t, ForActor(estoquista)(other))
	assert.True(t, ForActor(estoquista)(low))

	assert.False(t, ForActor(noRole)(own))
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, WriteEvent(w, ports.Event{Type: ports.EventOrderCreated, OrderID: "o1", At: at}))
	require.NoError(t, WriteComment(w, "ping"))
	assert.Equal(t,
		"event: order.created\ndata: {\"type\":\"order.created\",\"order_id\":\"o1\",\"at\":\"2025-03-01T10:00:00Z\"}\n\n: ping\n\n",
		buf.String())
}
