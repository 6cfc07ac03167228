package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/compras-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/compras-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "compras-pro-test"
	testExpMin    = 60
)

// guardedApp monta una ruta de recepción protegida con JWT + RBAC y un
// handler que responde 200 si los middlewares dejan pasar.
func guardedApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Post("/receive",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func bearerFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func postReceive(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/receive", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_BodegueroPuedeRecibir(t *testing.T) {
	app := guardedApp("admin", "bodeguero")
	resp := postReceive(t, app, bearerFor(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"el bodeguero debe poder registrar recepciones")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bodeguero", body["role"])
}

func TestRequireRole_CompradorNoRecibeMercancia(t *testing.T) {
	// El comprador gestiona órdenes pero no registra entradas a bodega.
	app := guardedApp("admin", "bodeguero")
	resp := postReceive(t, app, bearerFor(t, "comprador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_AdminPasaEnCualquierRutaQueLoPermita(t *testing.T) {
	app := guardedApp("admin", "comprador")
	resp := postReceive(t, app, bearerFor(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	// Token legacy sin claim de rol: 401, no 403, porque no hay identidad
	// de rol que evaluar.
	app := guardedApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := postReceive(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := guardedApp("admin")
	resp := postReceive(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenMalformado_Retorna401(t *testing.T) {
	app := guardedApp("admin")
	resp := postReceive(t, app, "Bearer no.es.un.jwt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware — claims en Locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerFor(t, "comprador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "comprador", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireModule
// ──────────────────────────────────────────────────────────────────────────────

type stubModuleChecker struct {
	active bool
	err    error
	asked  string
}

func (s *stubModuleChecker) HasActiveModule(_ context.Context, _, moduleName string) (bool, error) {
	s.asked = moduleName
	return s.active, s.err
}

func moduleApp(checker *stubModuleChecker) *fiber.App {
	app := fiber.New()
	app.Get("/purchase-orders",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule("purchasing", checker),
		func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) },
	)
	return app
}

func TestRequireModule_ActivoDejaPasar(t *testing.T) {
	checker := &stubModuleChecker{active: true}
	app := moduleApp(checker)

	req := httptest.NewRequest(http.MethodGet, "/purchase-orders", nil)
	req.Header.Set("Authorization", bearerFor(t, "comprador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "purchasing", checker.asked)
}

func TestRequireModule_NoContratado_Retorna403(t *testing.T) {
	app := moduleApp(&stubModuleChecker{active: false})

	req := httptest.NewRequest(http.MethodGet, "/purchase-orders", nil)
	req.Header.Set("Authorization", bearerFor(t, "comprador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MODULE_DISABLED")
}

func TestRequireModule_FalloDeDB_Retorna503(t *testing.T) {
	app := moduleApp(&stubModuleChecker{err: errors.New("db caída")})

	req := httptest.NewRequest(http.MethodGet, "/purchase-orders", nil)
	req.Header.Set("Authorization", bearerFor(t, "comprador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt — ida y vuelta
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "bodeguero", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, companyID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCompanyID, companyID)
	assert.Equal(t, "bodeguero", role)
}

func TestJWT_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err)
}

func TestJWT_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, testCompanyID, "admin", testIssuer, testExpMin)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
