package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/Suministros-api/docs"
	appanalytics "github.com/jhoicas/Suministros-api/internal/application/analytics"
	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/purchasing"
	"github.com/jhoicas/Suministros-api/internal/application/sales"
	"github.com/jhoicas/Suministros-api/internal/application/usecase"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/purchaseorder"
	httpRouter "github.com/jhoicas/Suministros-api/internal/interfaces/http"
	"github.com/jhoicas/Suministros-api/pkg/config"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// @title        Suministros API
// @version      1.0
// @description  Inventario, proveedores, carrito y estadísticas de ventas.
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization

// backend agrupa los puertos de persistencia del driver elegido.
type backend struct {
	store     repository.Store
	tx        repository.TxRunner
	analytics repository.AnalyticsRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer db.close()

	authUC := auth.NewAuthUseCase(db.store.Users(), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Admin.Username != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("username", cfg.Admin.Username).Msg("administrador inicial creado")
		}
	}

	productUC := usecase.NewProductUseCase(db.store, db.tx, cfg.Catalog.PageSize)
	supplierUC := usecase.NewSupplierUseCase(db.store, db.tx, cfg.Catalog.PageSize)
	cartUC := sales.NewCartUseCase(db.store, db.tx)

	// PDF: justificante del pedido para el cliente
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	checkoutUC := sales.NewCheckoutUseCase(db.store, db.tx, cfg.Catalog.SalesRetention, pdfGenerator)
	purchasingUC := purchasing.NewPurchasingUseCase(db.store, db.tx, purchaseorder.NewXMLBuilder())
	dashboardUC := appanalytics.NewDashboardUseCase(db.analytics)
	statisticsUC := appanalytics.NewStatisticsUseCase(db.analytics, db.store, db.tx, cfg.Catalog.PageSize, cfg.Catalog.PurchaseRetention)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpRouter.NewMetrics(registry, "suministros")

	app := fiber.New(httpRouter.AppConfig(cfg.App.Name, cfg.App.Debug))
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.App.Debug}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.Docs {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Suministros API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		SupplierUC:   supplierUC,
		CartUC:       cartUC,
		CheckoutUC:   checkoutUC,
		PurchasingUC: purchasingUC,
		DashboardUC:  dashboardUC,
		StatisticsUC: statisticsUC,
		Metrics:      metrics,
		Logger:       log.Zerolog(),
		JWTSecret:    cfg.JWT.Secret,
		CookieSecure: cfg.HTTP.CookieSecure,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackend abre PostgreSQL (aplicando el esquema si DB_AUTO_MIGRATE) o el almacén en memoria.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.DB.Driver == "memory" {
		db := memory.New()
		return &backend{store: db.Store(), tx: db, analytics: db.Analytics(), close: func() {}}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &backend{
		store:     postgres.NewStore(pool),
		tx:        postgres.NewTxRunner(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}, nil
}
