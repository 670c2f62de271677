package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/application/access"
	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/orders"
	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/realtime"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/internal/testutil/memstore"
)

type api struct {
	app   *fiber.App
	store *memstore.Store
	hub   *realtime.Hub
}

func newAPI(t *testing.T) api {
	t.Helper()
	log := zerolog.Nop()
	store := memstore.New()
	hub := realtime.NewHub(0, log)
	t.Cleanup(hub.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo1"), bcrypt.MinCost)
	require.NoError(t, err)
	store.PutSector(entity.Sector{ID: "S1", Name: "Enfermagem"})
	store.PutUser(entity.User{ID: "u-admin", Email: "admin@hospital.org", PasswordHash: string(hash), FullName: "Admin"}, "admin")
	store.PutUser(entity.User{ID: "u-est", Email: "est@hospital.org", FullName: "Estoquista"}, "estoquista")
	store.PutUser(entity.User{ID: "u-s1", Email: "s1@hospital.org", FullName: "Enfermagem", SectorID: "S1"}, "setor")
	store.PutProduct(entity.Product{ID: "P1", Name: "Luva", Unit: "cx", CurrentStock: decimal.NewFromInt(5), MinimumStock: decimal.NewFromInt(2)})

	ledger := inventory.NewLedgerUseCase(store, store.Movements(), nil, nil, log)
	deps := apphttp.RouterDeps{
		Accounts: access.NewAccountUseCase(store, store.Users(), access.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		Resolver: access.NewResolver(store.Users(), log),
		Products: inventory.NewProductUseCase(store.Products(), ledger, log),
		Ledger:   ledger,
		Orders:   orders.NewUseCase(store, store.Orders(), orders.Deps{Publisher: hub}, log),
		Sectors:  catalog.NewSectorUseCase(store.Sectors(), nil, log),
		Printers: catalog.NewPrinterUseCase(store.Printers(), log),
		Reports:  report.NewUseCase(store.Products(), store.Orders(), nil, time.Minute, log),
		Events:   hub,

		JWTSecret: testJWTSecret,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, deps)
	return api{app: app, store: store, hub: hub}
}

func (a api) call(t *testing.T, method, path, userID string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", tokenFor(t, userID))
	}
	resp, err := a.app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestLoginYMe(t *testing.T) {
	a := newAPI(t)

	resp, raw := a.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ADMIN@hospital.org", Password: "segredo1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	me, err := a.app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, me.StatusCode)
	var body dto.MeResponse
	require.NoError(t, json.NewDecoder(me.Body).Decode(&body))
	assert.Equal(t, "admin", body.Role)
	assert.True(t, body.Capabilities[access.CapDeleteUsers])

	resp, _ = a.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@hospital.org", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductos_PermisosPorRol(t *testing.T) {
	a := newAPI(t)
	in := dto.CreateProductRequest{Name: "Seringa", Unit: "un", MinimumStock: decimal.NewFromInt(1)}

	resp, _ := a.call(t, http.MethodPost, "/api/products", "u-s1", in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := a.call(t, http.MethodPost, "/api/products", "u-est", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = a.call(t, http.MethodGet, "/api/products?search=seri", "u-s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ListResponse[dto.ProductResponse]
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Seringa", list.Items[0].Name)

	resp, _ = a.call(t, http.MethodDelete, "/api/products/"+list.Items[0].ID, "u-est", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = a.call(t, http.MethodDelete, "/api/products/"+list.Items[0].ID, "u-admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMovimientos_ErroresDeDominio(t *testing.T) {
	a := newAPI(t)

	resp, raw := a.call(t, http.MethodPost, "/api/stock-movements", "u-est", dto.RegisterMovementRequest{
		ProductID: "P1", MovementType: "saida", Quantity: decimal.NewFromInt(9), Notes: "uso",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)

	resp, _ = a.call(t, http.MethodPost, "/api/stock-movements", "u-est", dto.RegisterMovementRequest{
		ProductID: "P1", MovementType: "saida", Quantity: decimal.Zero, Notes: "uso",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.call(t, http.MethodPost, "/api/stock-movements", "u-est", dto.RegisterMovementRequest{
		ProductID: "nope", MovementType: "entrada", Quantity: decimal.NewFromInt(1), Notes: "compra",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.call(t, http.MethodPost, "/api/stock-movements", "u-est", dto.RegisterMovementRequest{
		ProductID: "P1", MovementType: "saida", Quantity: decimal.NewFromInt(2), Notes: "uso",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p, _ := a.store.Product("P1")
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(3)))

	// el libro es solo para gerente/admin
	resp, _ = a.call(t, http.MethodGet, "/api/stock-movements", "u-est", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, raw = a.call(t, http.MethodGet, "/api/stock-movements?sort=data_asc", "u-admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ListResponse[dto.MovementResponse]
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 1, list.Total)
}

func TestPedidos_CicloDeVida(t *testing.T) {
	a := newAPI(t)

	resp, raw := a.call(t, http.MethodPost, "/api/orders", "u-s1", dto.CreateOrderRequest{
		SectorID: "S1",
		Items:    []dto.OrderItemRequest{{ProductID: "P1", Quantity: decimal.NewFromInt(2)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var order dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, "pendente", order.Status)

	statusPath := "/api/orders/" + order.ID + "/status"

	resp, _ = a.call(t, http.MethodPatch, statusPath, "u-s1", dto.UpdateOrderStatusRequest{Status: "aprovado"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = a.call(t, http.MethodPatch, statusPath, "u-est", dto.UpdateOrderStatusRequest{Status: "entregue"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INVALID_TRANSITION", body.Code)

	resp, _ = a.call(t, http.MethodPatch, statusPath, "u-est", dto.UpdateOrderStatusRequest{Status: "aprovado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw = a.call(t, http.MethodPatch, statusPath, "u-est", dto.UpdateOrderStatusRequest{Status: "entregue"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, "entregue", order.Status)

	resp, raw = a.call(t, http.MethodPatch, statusPath, "u-est", dto.UpdateOrderStatusRequest{Status: "cancelado"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "TERMINAL_STATUS", body.Code)

	// sin impresora configurada la impresión manual es una falla de dependencia
	resp, _ = a.call(t, http.MethodPost, "/api/orders/"+order.ID+"/print", "u-est", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPedidos_ItemInvalidoIndicaCampo(t *testing.T) {
	a := newAPI(t)
	resp, raw := a.call(t, http.MethodPost, "/api/orders", "u-s1", dto.CreateOrderRequest{
		SectorID: "S1",
		Items:    []dto.OrderItemRequest{{ProductID: "P1", Quantity: decimal.NewFromInt(-1)}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.True(t, strings.HasPrefix(body.Field, "items"), body.Field)
}

func TestUsuarios_GerenteNoPuedeBorrar(t *testing.T) {
	a := newAPI(t)
	a.store.PutUser(entity.User{ID: "u-ger", Email: "ger@hospital.org"}, "gerente")

	resp, raw := a.call(t, http.MethodPost, "/api/users", "u-ger", dto.CreateAccountRequest{
		Email: "novo@hospital.org", Password: "segredo1", FullName: "Novo", Role: "estoquista",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = a.call(t, http.MethodDelete, "/api/users/"+created.ID, "u-ger", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = a.call(t, http.MethodDelete, "/api/users/"+created.ID, "u-admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReportes_Dashboard(t *testing.T) {
	a := newAPI(t)
	resp, raw := a.call(t, http.MethodGet, "/api/reports/dashboard", "u-s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var dash dto.DashboardDTO
	require.NoError(t, json.Unmarshal(raw, &dash))
	assert.Equal(t, 1, dash.TotalProducts)

	resp, _ = a.call(t, http.MethodGet, "/api/reports/summary?start_date=2024-13-01", "u-s1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPedidos_FeedSSE(t *testing.T) {
	a := newAPI(t)

	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for a.hub.Subscribers() == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		a.hub.Publish(ports.Event{Type: ports.EventOrderCreated, OrderID: "o-2", SectorID: "S2", Status: "pendente", At: time.Now()})
		a.hub.Publish(ports.Event{Type: ports.EventOrderCreated, OrderID: "o-1", SectorID: "S1", Status: "pendente", At: time.Now()})
		a.hub.Close()
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/events", nil)
	req.Header.Set("Authorization", tokenFor(t, "u-s1"))
	resp, err := a.app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "event: order.created")
	assert.Contains(t, out, `"o-1"`)
	assert.NotContains(t, out, `"o-2"`, "setor S1 no recibe eventos de S2")
}
