package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Suministros-api/internal/application/analytics"
	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/purchasing"
	"github.com/jhoicas/Suministros-api/internal/application/sales"
	"github.com/jhoicas/Suministros-api/internal/application/usecase"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/purchaseorder"
	apphttp "github.com/jhoicas/Suministros-api/internal/interfaces/http"
)

// testEnv aplicación completa sobre el almacén en memoria.
type testEnv struct {
	app           *fiber.App
	db            *memory.DB
	adminToken    string
	customerToken string
	customerID    string
	category      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db := memory.New()

	authUC := auth.NewAuthUseCase(db.Store().Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, err := authUC.EnsureAdmin(ctx, "admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	customer, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Username: "cliente", Email: "cliente@example.com", Password: "secreto123", ConfirmPassword: "secreto123",
	})
	require.NoError(t, err)

	adminLogin, err := authUC.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	customerLogin, err := authUC.Login(ctx, dto.LoginRequest{Username: "cliente", Password: "secreto123"})
	require.NoError(t, err)

	cat := &entity.Category{ID: entity.NewID(), Name: "Ferretería"}
	require.NoError(t, db.Store().Categories().Create(ctx, cat))

	app := fiber.New(apphttp.AppConfig("suministros-test", false))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    usecase.NewProductUseCase(db.Store(), db, 10),
		SupplierUC:   usecase.NewSupplierUseCase(db.Store(), db, 10),
		CartUC:       sales.NewCartUseCase(db.Store(), db),
		CheckoutUC:   sales.NewCheckoutUseCase(db.Store(), db, 50, infrapdf.NewMarotoPDFGenerator("Suministros")),
		PurchasingUC: purchasing.NewPurchasingUseCase(db.Store(), db, purchaseorder.NewXMLBuilder()),
		DashboardUC:  appanalytics.NewDashboardUseCase(db.Analytics()),
		StatisticsUC: appanalytics.NewStatisticsUseCase(db.Analytics(), db.Store(), db, 10, 50),
		Metrics:      apphttp.NewMetrics(prometheus.NewRegistry(), "test"),
		Logger:       zerolog.Nop(),
		JWTSecret:    testJWTSecret,
	})

	return &testEnv{
		app:           app,
		db:            db,
		adminToken:    "Bearer " + adminLogin.Token,
		customerToken: "Bearer " + customerLogin.Token,
		customerID:    customer.ID,
		category:      cat.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (e *testEnv) createSupplier(t *testing.T) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/suppliers/add", e.adminToken, dto.SupplierFormRequest{
		CompanyName: "Suministros Norte", ContactName: "Ana", Phone: "600000000", Email: "norte@example.com",
		Address: "Calle 1", City: "Bilbao", Country: "España", PostalCode: "48001", CIF: "B12345678", Discount: "10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)["id"].(string)
}

func (e *testEnv) createProduct(t *testing.T, ref, supplierID string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/products/add", e.adminToken, dto.ProductFormRequest{
		Name: "Martillo", Price: "10.00", Stock: "5", MinStock: "2", ReferenceNumber: ref,
		Category: e.category, Manufacturer: "ACME", Supplier: supplierID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)["id"].(string)
}

func TestCheckoutFlow_TwoUnits(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t, "REF12345", env.createSupplier(t))

	resp := env.do(t, http.MethodPost, "/add-to-cart/"+productID, env.customerToken, dto.CartQuantityRequest{Quantity: 2})
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	body = decodeBody(t, env.do(t, http.MethodGet, "/api/cart-total", env.customerToken, nil))
	assert.True(t, decimal.RequireFromString(body["total"].(string)).Equal(decimal.NewFromInt(20)))

	resp = env.do(t, http.MethodPost, "/checkout", env.customerToken, dto.CheckoutRequest{
		Name: "Cliente", Email: "cliente@example.com", Address: "Calle Mayor 1",
		CardNumber: "4111111111111111", Expiry: "12/30", CVV: "123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody(t, resp)
	assert.True(t, decimal.RequireFromString(sale["total"].(string)).Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "card ****1111", sale["payment_method"])

	p, err := env.db.Store().Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	cart := decodeBody(t, env.do(t, http.MethodGet, "/cart", env.customerToken, nil))
	assert.Empty(t, cart["items"])

	saleID := sale["id"].(string)
	resp = env.do(t, http.MethodGet, "/order-confirmation/"+saleID, env.customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/order-confirmation/"+saleID+"/pdf", env.customerToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestCart_LineKeepsProductIDAcrossRequests(t *testing.T) {
	env := newTestEnv(t)
	sup := env.createSupplier(t)
	first := env.createProduct(t, "REF00001", sup)
	second := env.createProduct(t, "REF00002", sup)

	resp := env.do(t, http.MethodPost, "/add-to-cart/"+first, env.customerToken, dto.CartQuantityRequest{Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// otra petición con una ruta de la misma longitud reutiliza el buffer de la anterior
	resp = env.do(t, http.MethodGet, "/products/"+second, env.customerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	lines, err := env.db.Store().Cart().ListByUser(context.Background(), env.customerID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, first, lines[0].ProductID)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Martillo", lines[0].Product.Name)
}

func TestCheckout_EmptyCartIsBusinessError(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/checkout", env.customerToken, nil)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Tu carrito está vacío", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestCart_AdminsAreRejected(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t, "REF-ADM", env.createSupplier(t))

	resp := env.do(t, http.MethodPost, "/add-to-cart/"+productID, env.adminToken, dto.CartQuantityRequest{Quantity: 1})
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Los administradores no pueden añadir productos al carrito", body["message"])
}

func TestCart_ZeroQuantity(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t, "REF-Q0", env.createSupplier(t))

	resp := env.do(t, http.MethodPost, "/add-to-cart/"+productID, env.customerToken, dto.CartQuantityRequest{Quantity: 0})
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs["quantity"], "La cantidad debe ser mayor que cero")
}

func TestProducts_AdminOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/products/add", env.customerToken, dto.ProductFormRequest{Name: "X"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProducts_ValidationAndDuplicateReference(t *testing.T) {
	env := newTestEnv(t)
	supplierID := env.createSupplier(t)

	resp := env.do(t, http.MethodPost, "/products/add", env.adminToken, dto.ProductFormRequest{})
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "name")

	env.createProduct(t, "REF12345", supplierID)
	resp = env.do(t, http.MethodPost, "/products/add", env.adminToken, dto.ProductFormRequest{
		Name: "Otro", Price: "1", Stock: "1", MinStock: "0", ReferenceNumber: "REF12345",
		Category: env.category, Manufacturer: "ACME", Supplier: supplierID,
	})
	body = decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs["reference_number"], "El número de referencia ya existe")
}

func TestProducts_StockHiddenFromCustomers(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t, "REF-STK", env.createSupplier(t))

	admin := decodeBody(t, env.do(t, http.MethodGet, "/products/"+productID, env.adminToken, nil))
	assert.EqualValues(t, 5, admin["stock"])

	customer := decodeBody(t, env.do(t, http.MethodGet, "/products/"+productID, env.customerToken, nil))
	_, hasStock := customer["stock"]
	assert.False(t, hasStock)
}

func TestProducts_UnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/products/no-existe", env.adminToken, nil)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestNotifySupplierAndOrderXML(t *testing.T) {
	env := newTestEnv(t)
	supplierID := env.createSupplier(t)
	productID := env.createProduct(t, "REF-PO", supplierID)

	resp := env.do(t, http.MethodPost, "/api/notify_supplier", env.adminToken, dto.NotifySupplierRequest{
		ProductID: productID, SupplierID: supplierID, Quantity: "4", Message: "Urgente",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Notificación enviada y stock actualizado", body["message"])
	purchaseID := body["purchase"].(map[string]any)["id"].(string)

	resp = env.do(t, http.MethodGet, "/api/purchases/"+purchaseID+"/order.xml", env.adminToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderOrderDigest))
	xml, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(xml), "PurchaseOrder")
}

func TestStatisticsAndDashboards(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "REF-ST", env.createSupplier(t))

	resp := env.do(t, http.MethodGet, "/statistics", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody(t, resp)
	assert.True(t, decimal.RequireFromString(stats["inventory_value"].(string)).Equal(decimal.NewFromInt(50)))
	assert.Nil(t, stats["failed_sections"])

	resp = env.do(t, http.MethodGet, "/statistics", env.customerToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	dash := decodeBody(t, env.do(t, http.MethodGet, "/dashboard", env.adminToken, nil))
	assert.Equal(t, "admin", dash["role"])
	chart := dash["chart_data"].(map[string]any)
	assert.Len(t, chart["labels"], 31)

	dash = decodeBody(t, env.do(t, http.MethodGet, "/api/refresh_dashboard_data", env.customerToken, nil))
	assert.Equal(t, "customer", dash["role"])
}

func TestSalesByDate_InvalidDate(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/sales_by_date/2024-13-45", env.adminToken, nil)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Formato de fecha inválido", body["message"])
}

func TestLoginFormSetsCookieAndRedirects(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"username": {"cliente"}, "password": {"secreto123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == apphttp.SessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "cliente", Password: "mala"})
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Usuario o contraseña inválidos", body["message"])
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "cliente", Email: "otro@example.com", Password: "secreto123", ConfirmPassword: "secreto123",
	})
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "username")
}

func TestCSRF_CookieSessionRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	session := strings.TrimPrefix(env.customerToken, "Bearer ")

	req := httptest.NewRequest(http.MethodPost, "/remove-from-cart/"+entity.NewID(), nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: session})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: session})
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	token := decodeBody(t, resp)["csrf_token"].(string)
	require.NotEmpty(t, token)
	var csrfCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "csrf_" {
			csrfCookie = ck
		}
	}
	require.NotNil(t, csrfCookie)

	req = httptest.NewRequest(http.MethodPost, "/remove-from-cart/"+entity.NewID(), nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: session})
	req.AddCookie(csrfCookie)
	req.Header.Set(apphttp.HeaderCSRFToken, token)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	// pasa el CSRF; la línea no existe en el carrito
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/no-existe", "", nil)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp = env.do(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "test_http_requests_total")
}
