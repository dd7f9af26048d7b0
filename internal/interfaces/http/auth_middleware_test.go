package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Suministros-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Suministros-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUsername  = "cliente_test"
	testIssuer    = "suministros-api-test"
	testExpMin    = 60
)

func signedToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

// whoAmI responde con los claims cargados por los middlewares.
func whoAmI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id":  apphttp.GetUserID(c),
		"username": apphttp.GetUsername(c),
		"role":     apphttp.GetRole(c),
	})
}

type authCase struct {
	name     string
	header   string // Authorization
	cookie   string // access_token
	accept   string
	status   int
	code     string // dto.ErrorResponse.Code esperado
	location string
}

func runAuthCases(t *testing.T, app *fiber.App, path string, cases []authCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set(fiber.HeaderAccept, tc.accept)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.location != "" {
				assert.Equal(t, tc.location, resp.Header.Get(fiber.HeaderLocation))
			}
			if tc.code != "" {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tc.code, body["code"])
				assert.Equal(t, false, body["success"])
			}
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(entity.RoleAdmin), whoAmI)

	admin := signedToken(t, entity.RoleAdmin)
	customer := signedToken(t, entity.RoleCustomer)
	runAuthCases(t, app, "/admin", []authCase{
		{name: "admin con Bearer", header: "Bearer " + admin, status: http.StatusOK},
		{name: "admin con cookie", cookie: admin, status: http.StatusOK},
		{name: "cliente", header: "Bearer " + customer, status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "token sin rol", header: "Bearer " + signedToken(t, ""), status: http.StatusUnauthorized, code: "MISSING_ROLE"},
		{name: "sin credenciales", status: http.StatusUnauthorized, code: "MISSING_TOKEN"},
		{name: "esquema distinto", header: "Basic abc", status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "token malformado", header: "Bearer token.invalido.aqui", status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "navegador sin sesión", accept: "text/html", status: http.StatusSeeOther, location: "/login"},
	})
}

func TestAuthMiddleware_HeaderWinsOverCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signedToken(t, entity.RoleAdmin))
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: signedToken(t, entity.RoleCustomer)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUsername, body["username"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestCustomersOnly(t *testing.T) {
	const msg = "Los administradores no pueden usar el carrito"
	app := fiber.New()
	app.Get("/cart", apphttp.AuthMiddleware(testJWTSecret), apphttp.CustomersOnly(msg), whoAmI)

	admin := signedToken(t, entity.RoleAdmin)
	runAuthCases(t, app, "/cart", []authCase{
		{name: "cliente pasa", header: "Bearer " + signedToken(t, entity.RoleCustomer), status: http.StatusOK},
		{name: "admin por API", header: "Bearer " + admin, status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "admin navegando", cookie: admin, accept: "text/html", status: http.StatusSeeOther, location: "/dashboard"},
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, msg, body["message"])
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", apphttp.OptionalAuth(testJWTSecret), whoAmI)

	cases := []struct {
		name, header, cookie, role string
	}{
		{name: "anónimo"},
		{name: "Bearer válido", header: "Bearer " + signedToken(t, entity.RoleCustomer), role: entity.RoleCustomer},
		{name: "cookie válida", cookie: signedToken(t, entity.RoleAdmin), role: entity.RoleAdmin},
		{name: "token inválido se ignora", header: "Bearer no.es.jwt"},
		{name: "esquema inválido se ignora", header: "Token abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: tc.cookie})
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.role, body["role"])
		})
	}
}
