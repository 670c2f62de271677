package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessCounters(t *testing.T) {
	m := New()
	m.MovementRecorded("entrada")
	m.MovementRecorded("entrada")
	m.MovementRecorded("saida")
	m.OrderTransitioned("pendente", "aprovado")
	m.PrintJob("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("entrada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("saida")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pendente", "aprovado")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.printJobs.WithLabelValues("ok")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	m.MovementRecorded("ajuste")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/products/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpLatency))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `route="/api/products/:id"`)
	assert.Contains(t, string(body), "estoque_movements_total")
}
