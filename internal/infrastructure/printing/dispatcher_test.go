package printing

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/testutil/memstore"
	"github.com/jhoicas/estoque-api/pkg/config"
)

type stubRenderer struct{}

func (stubRenderer) RenderOrder(_ context.Context, o *entity.Order) ([]byte, error) {
	return []byte("%PDF-" + o.ID), nil
}

type jobMetrics struct {
	mu      sync.Mutex
	results []string
}

func (m *jobMetrics) MovementRecorded(string)          {}
func (m *jobMetrics) OrderTransitioned(string, string) {}
func (m *jobMetrics) PrintJob(r string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
}

// printerAgent simula el agente HTTP de una impresora y registra los trabajos recibidos.
type printerAgent struct {
	mu     sync.Mutex
	bodies []string
	status int
}

func (a *printerAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	a.mu.Lock()
	a.bodies = append(a.bodies, r.URL.Path+"|"+r.Header.Get("Content-Type")+"|"+string(b))
	status := a.status
	a.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func (a *printerAgent) jobs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.bodies...)
}

func setup(t *testing.T, agent *printerAgent) (*Dispatcher, *memstore.Store, *jobMetrics) {
	t.Helper()
	srv := httptest.NewServer(agent)
	t.Cleanup(srv.Close)
	_, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	st := memstore.New()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, st.Orders().Create(ctx, &entity.Order{ID: "o1", Status: entity.OrderStatusEntregue, CreatedAt: now, UpdatedAt: now}))

	client := NewClient(config.PrintingConfig{Port: port, Path: "print", TimeoutSeconds: 2})
	m := &jobMetrics{}
	return NewDispatcher(st.Printers(), st.Orders(), stubRenderer{}, client, m, zerolog.Nop()), st, m
}

func addPrinter(t *testing.T, st *memstore.Store, id, ip string, active, auto bool) {
	t.Helper()
	require.NoError(t, st.Printers().Create(context.Background(), &entity.Printer{
		ID: id, Name: "P-" + id, IPAddress: ip, IsActive: active, AutoPrintOnAccept: auto,
	}))
}

func TestClientURL(t *testing.T) {
	c := NewClient(config.PrintingConfig{Port: 8008, Path: "/print", TimeoutSeconds: 1})
	assert.Equal(t, "http://192.168.0.10:8008/print", c.URL("192.168.0.10"))
	c = NewClient(config.PrintingConfig{Port: 9100, Path: "jobs", TimeoutSeconds: 1})
	assert.Equal(t, "http://[fe80::1]:9100/jobs", c.URL("fe80::1"))
}

func TestAutoPrint_OnlyActiveAutoPrinters(t *testing.T) {
	agent := &printerAgent{}
	d, st, m := setup(t, agent)
	addPrinter(t, st, "a", "127.0.0.1", true, true)
	addPrinter(t, st, "b", "127.0.0.1", true, false)
	addPrinter(t, st, "c", "127.0.0.1", false, true)
	addPrinter(t, st, "d", "", true, true)

	require.NoError(t, d.AutoPrint(context.Background(), "o1"))
	assert.Equal(t, []string{"/print|application/pdf|%PDF-o1"}, agent.jobs())
	assert.Equal(t, []string{"ok"}, m.results)
}

func TestAutoPrint_NoTargetsIsNoop(t *testing.T) {
	agent := &printerAgent{}
	d, st, _ := setup(t, agent)
	addPrinter(t, st, "b", "127.0.0.1", true, false)

	require.NoError(t, d.AutoPrint(context.Background(), "o1"))
	assert.Empty(t, agent.jobs())
}

func TestPrint_AllActivePrinters(t *testing.T) {
	agent := &printerAgent{}
	d, st, _ := setup(t, agent)
	addPrinter(t, st, "a", "127.0.0.1", true, true)
	addPrinter(t, st, "b", "127.0.0.1", true, false)

	require.NoError(t, d.Print(context.Background(), "o1"))
	assert.Len(t, agent.jobs(), 2)
}

func TestPrint_NoPrinters(t *testing.T) {
	d, _, _ := setup(t, &printerAgent{})
	assert.ErrorIs(t, d.Print(context.Background(), "o1"), ErrNoPrinters)
}

func TestPrint_AgentErrorIsReported(t *testing.T) {
	agent := &printerAgent{status: http.StatusServiceUnavailable}
	d, st, m := setup(t, agent)
	addPrinter(t, st, "a", "127.0.0.1", true, false)

	err := d.Print(context.Background(), "o1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P-a")
	assert.Contains(t, m.results, "error")
}

func TestPrint_UnknownOrder(t *testing.T) {
	d, st, _ := setup(t, &printerAgent{})
	addPrinter(t, st, "a", "127.0.0.1", true, false)
	assert.Error(t, d.Print(context.Background(), "missing"))
}
