// seed puebla la base de datos con datos de demostración (usuarios, categorías,
// proveedores, productos, ventas y pedidos) o importa productos desde un CSV.
//
// Uso:
//
//	go run ./cmd/seed [-products 100] [-sales 100] [-purchases 50] [-seed 42]
//	go run ./cmd/seed -csv productos.csv [-encoding latin1]
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Suministros-api/pkg/config"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

func main() {
	opts := defaultOptions()
	flag.IntVar(&opts.Customers, "customers", opts.Customers, "clientes de demostración")
	flag.IntVar(&opts.Products, "products", opts.Products, "productos a crear")
	flag.IntVar(&opts.LowStock, "low-stock", opts.LowStock, "productos con stock bajo")
	flag.IntVar(&opts.Sales, "sales", opts.Sales, "ventas históricas")
	flag.IntVar(&opts.Purchases, "purchases", opts.Purchases, "pedidos a proveedores")
	flag.IntVar(&opts.Days, "days", opts.Days, "días hacia atrás para las fechas")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "semilla del generador aleatorio")
	csvPath := flag.String("csv", "", "importar productos desde un CSV en lugar de generar datos")
	enc := flag.String("encoding", "utf8", "codificación del CSV: utf8, latin1, windows1252")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos generados se pierden al terminar")
	}

	ctx := context.Background()
	store, tx, closeFn, err := open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer closeFn()

	opts.SalesRetention = cfg.Catalog.SalesRetention
	s := &seeder{
		store: store,
		tx:    tx,
		auth: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
		}),
		rng: rand.New(rand.NewPCG(*seed, *seed>>1)),
		now: time.Now().UTC(),
		log: func(format string, args ...any) { log.Info().Msgf(format, args...) },
	}

	if *csvPath != "" {
		decoder, err := textDecoder(*enc)
		if err != nil {
			log.Fatal().Err(err).Msg("codificación")
		}
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		defer f.Close()
		imported, skipped, err := s.importCSV(ctx, f, decoder)
		if err != nil {
			log.Fatal().Err(err).Int("imported", imported).Msg("importar CSV")
		}
		log.Info().Int("imported", imported).Int("skipped", skipped).Msg("CSV importado")
		return
	}

	sum, err := s.demo(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("poblar base de datos")
	}
	log.Info().
		Int("users", sum.Users).
		Int("categories", sum.Categories).
		Int("suppliers", sum.Suppliers).
		Int("products", sum.Products).
		Int("sales", sum.Sales).
		Int("purchases", sum.Purchases).
		Uint64("seed", *seed).
		Msg("base de datos poblada con éxito")
}

func open(ctx context.Context, cfg *config.Config) (repository.Store, repository.TxRunner, func(), error) {
	if cfg.DB.Driver == "memory" {
		db := memory.New()
		return db.Store(), db, func() {}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	// el seed siempre garantiza el esquema
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return postgres.NewStore(pool), postgres.NewTxRunner(pool), pool.Close, nil
}
