package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/access"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	authz "github.com/jhoicas/estoque-api/internal/domain/access"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/estoque-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "estoque-api-test"
	testExpMin    = 60
)

// staticResolver resuelve actores desde un mapa fijo.
type staticResolver map[string]authz.Actor

func (r staticResolver) Resolve(_ context.Context, userID string) authz.Actor {
	if a, ok := r[userID]; ok {
		return a
	}
	return authz.Actor{UserID: userID}
}

var actors = staticResolver{
	"u-admin": authz.NewActor("u-admin", "", []string{"admin"}),
	"u-ger":   authz.NewActor("u-ger", "", []string{"gerente"}),
	"u-est":   authz.NewActor("u-est", "", []string{"estoquista"}),
	"u-s1":    authz.NewActor("u-s1", "S1", []string{"setor"}),
	// estoquista + setor: prevalece estoquista
	"u-dual": authz.NewActor("u-dual", "S1", []string{"setor", "estoquista"}),
}

// buildTestApp app mínima: JWT + actor + capacidad y un handler dummy.
func buildTestApp(capability string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.ActorMiddleware(actors),
		apphttp.Require(capability),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": string(apphttp.GetActor(c).Role)})
		},
	)
	return app
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, userID+"@hospital.org", testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestRequire_CapacidadPorRol(t *testing.T) {
	cases := []struct {
		capability string
		userID     string
		want       int
	}{
		{access.CapManageSectors, "u-admin", http.StatusOK},
		{access.CapManageSectors, "u-ger", http.StatusForbidden},
		{access.CapAdministerUsers, "u-ger", http.StatusOK},
		{access.CapDeleteUsers, "u-ger", http.StatusForbidden},
		{access.CapViewLedger, "u-est", http.StatusForbidden},
		{access.CapViewLedger, "u-ger", http.StatusOK},
		{access.CapRecordMovements, "u-est", http.StatusOK},
		{access.CapRecordMovements, "u-s1", http.StatusForbidden},
		{access.CapCreateOrders, "u-s1", http.StatusOK},
		{access.CapProcessOrders, "u-s1", http.StatusForbidden},
		{access.CapProcessOrders, "u-dual", http.StatusOK},
		{access.CapViewReports, "u-s1", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.capability+"/"+tc.userID, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(tc.capability), tokenFor(t, tc.userID))
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequire_SinRolRetorna403NoRole(t *testing.T) {
	resp := doRequest(t, buildTestApp(access.CapViewReports), tokenFor(t, "u-desconocido"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NO_ROLE", decodeError(t, resp).Code)
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := doRequest(t, buildTestApp(access.CapViewReports), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp(access.CapViewReports)

	resp := doRequest(t, app, "Bearer no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)

	resp = doRequest(t, app, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other, err := pkgjwt.Generate("otro-secreto", "u-admin", "a@b.c", testIssuer, testExpMin)
	require.NoError(t, err)
	resp = doRequest(t, app, "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "u-admin", "a@b.c", testIssuer, -1)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp(access.CapViewReports), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActorMiddleware_RolResueltoEnServidor(t *testing.T) {
	resp := doRequest(t, buildTestApp(access.CapProcessOrders), tokenFor(t, "u-dual"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "estoquista", body["role"])
}

func TestGetActor_SinMiddlewareEsAnonimo(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		return c.JSON(fiber.Map{"has_role": a.HasRole, "user": a.UserID})
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"has_role":false,"user":""}`, string(raw))
}
