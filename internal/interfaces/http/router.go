package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	appanalytics "github.com/jhoicas/Suministros-api/internal/application/analytics"
	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/purchasing"
	"github.com/jhoicas/Suministros-api/internal/application/sales"
	"github.com/jhoicas/Suministros-api/internal/application/usecase"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// HeaderCSRFToken cabecera con el token CSRF en peticiones autenticadas por cookie.
const HeaderCSRFToken = "X-CSRF-Token"

const (
	localCSRF           = "csrf"
	msgAdminCartView    = "Los administradores no pueden acceder al carrito"
	msgAdminOrderDetail = "Los administradores no pueden ver confirmaciones de pedido"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	SupplierUC   *usecase.SupplierUseCase
	CartUC       *sales.CartUseCase
	CheckoutUC   *sales.CheckoutUseCase
	PurchasingUC *purchasing.PurchasingUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	StatisticsUC *appanalytics.StatisticsUseCase
	Metrics      *Metrics // nil = sin /metrics
	Logger       zerolog.Logger
	JWTSecret    string
	CookieSecure bool
}

// AppConfig configuración de fiber compartida por el servidor y los tests. Immutable copia los
// valores de Params, Query y Body: los casos de uso y el almacén en memoria los conservan
// más allá de la petición y fasthttp reutiliza sus buffers.
func AppConfig(name string, debug bool) fiber.Config {
	return fiber.Config{
		AppName:      name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(debug),
	}
}

// Router registra middlewares y rutas: páginas (JSON de vista) y API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	app.Use(RequestLogging(deps.Logger))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:" + HeaderCSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   deps.CookieSecure,
		CookieHTTPOnly: true,
		Expiration:     time.Hour,
		ContextKey:     localCSRF,
		Next:           skipCSRF,
	}))

	authn := AuthMiddleware(deps.JWTSecret)
	optional := OptionalAuth(deps.JWTSecret)
	admin := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Metrics, deps.CookieSecure)
	app.Get("/", optional, authHandler.Index)
	app.Get("/login", optional, authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Get("/register", optional, authHandler.RegisterPage)
	app.Post("/register", authHandler.Register)
	app.Get("/logout", authHandler.Logout)

	api := app.Group("/api")
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authHandler.Register)
	api.Get("/auth/me", authn, authHandler.Me)
	api.Get("/csrf-token", CSRFToken)

	// Dashboards y estadísticas
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.StatisticsUC)
	app.Get("/dashboard", authn, dashboardHandler.Dashboard)
	app.Get("/statistics", authn, admin, dashboardHandler.Statistics)
	api.Get("/refresh_dashboard_data", authn, dashboardHandler.RefreshDashboard)
	api.Get("/refresh_statistics", authn, admin, dashboardHandler.RefreshStatistics)
	api.Get("/client_purchase_history", authn, RequireRole(entity.RoleCustomer), dashboardHandler.ClientPurchaseHistory)
	api.Get("/sales_by_date/:date", authn, admin, dashboardHandler.SalesByDate)
	api.Get("/order_history", authn, admin, dashboardHandler.OrderHistory)

	// Catálogo: /products/add antes de /products/:id
	productHandler := NewProductHandler(deps.ProductUC)
	app.Get("/products", authn, productHandler.List)
	app.Get("/products/add", authn, admin, productHandler.NewForm)
	app.Post("/products/add", authn, admin, productHandler.Create)
	app.Get("/products/:id", authn, productHandler.Get)
	app.Get("/products/:id/edit", authn, admin, productHandler.EditForm)
	app.Post("/products/:id/edit", authn, admin, productHandler.Update)
	app.Post("/products/:id/delete", authn, admin, productHandler.Delete)
	app.Get("/low-stock-products", authn, admin, productHandler.LowStock)
	api.Get("/product_info/:id", authn, productHandler.Info)
	api.Get("/categories", authn, productHandler.Categories)

	// Proveedores (solo administradores)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := app.Group("/suppliers", authn, admin)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/add", supplierHandler.NewForm)
	suppliers.Post("/add", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.Get)
	suppliers.Get("/:id/edit", supplierHandler.EditForm)
	suppliers.Post("/:id/edit", supplierHandler.Update)
	suppliers.Post("/:id/delete", supplierHandler.Delete)

	// Pedidos a proveedor
	purchasingHandler := NewPurchasingHandler(deps.PurchasingUC, deps.Metrics)
	api.Post("/notify_supplier", authn, admin, purchasingHandler.NotifySupplier)
	api.Get("/purchases/:id", authn, admin, purchasingHandler.Get)
	api.Get("/purchases/:id/order.xml", authn, admin, purchasingHandler.OrderXML)

	// Carrito y checkout (solo clientes)
	salesHandler := NewSalesHandler(deps.CartUC, deps.CheckoutUC, deps.Metrics)
	app.Get("/cart", authn, CustomersOnly(msgAdminCartView), salesHandler.View)
	app.Post("/add-to-cart/:id", authn, CustomersOnly(msgAdminCart), salesHandler.Add)
	app.Post("/update-cart/:id", authn, CustomersOnly(msgAdminCartEdit), salesHandler.Update)
	app.Post("/remove-from-cart/:id", authn, CustomersOnly(msgAdminCartEdit), salesHandler.Remove)
	api.Get("/cart-total", authn, CustomersOnly(msgAdminCartView), salesHandler.Total)
	app.Get("/checkout", authn, CustomersOnly(msgAdminCheckout), salesHandler.CheckoutPage)
	app.Post("/checkout", authn, CustomersOnly(msgAdminCheckout), salesHandler.Checkout)
	app.Get("/order-confirmation/:id", authn, CustomersOnly(msgAdminOrderDetail), salesHandler.Confirmation)
	app.Get("/order-confirmation/:id/pdf", authn, CustomersOnly(msgAdminOrderDetail), salesHandler.ReceiptPDF)
}

// CSRFToken godoc
// @Summary      Token CSRF
// @Description  Enviar en la cabecera X-CSRF-Token en peticiones POST autenticadas por cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/csrf-token [get]
func CSRFToken(c *fiber.Ctx) error {
	token, _ := c.Locals(localCSRF).(string)
	return c.JSON(fiber.Map{"csrf_token": token})
}

// skipCSRF: los clientes con Bearer Token y las peticiones sin cookie de sesión no llevan
// credenciales ambientales; los métodos seguros siempre pasan para emitir el token.
func skipCSRF(c *fiber.Ctx) bool {
	if c.Get(fiber.HeaderAuthorization) != "" {
		return true
	}
	switch c.Method() {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return false
	}
	return c.Cookies(SessionCookie) == ""
}
