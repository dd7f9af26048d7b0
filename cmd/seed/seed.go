package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var demoCategories = map[string][]string{
	"Ordenadores":    {"Laptop", "Desktop", "Tablet", "All-in-One"},
	"Periféricos":    {"Monitor", "Teclado", "Ratón", "Impresora", "Escáner"},
	"Componentes":    {"Tarjeta Gráfica", "Procesador", "Memoria RAM", "Placa Base", "Fuente de Alimentación"},
	"Accesorios":     {"Funda para Laptop", "Soporte para Monitor", "Alfombrilla para Ratón", "Adaptador USB"},
	"Redes":          {"Router", "Switch", "Punto de Acceso Wi-Fi", "Cable Ethernet"},
	"Software":       {"Sistema Operativo", "Suite Ofimática", "Antivirus", "Diseño Gráfico"},
	"Almacenamiento": {"Disco Duro", "SSD", "Memoria USB", "Tarjeta SD"},
	"Audio y Video":  {"Auriculares", "Altavoces", "Micrófono", "Webcam"},
}

var categoryOrder = []string{
	"Ordenadores", "Periféricos", "Componentes", "Accesorios",
	"Redes", "Software", "Almacenamiento", "Audio y Video",
}

var demoSuppliers = []struct{ name, contact string }{
	{"TechnoGlobal Solutions", "María García"},
	{"InnovaSoft Systems", "Carlos Rodríguez"},
	{"DataCore Enterprises", "Ana Martínez"},
	{"NetWave Communications", "Javier López"},
	{"CyberTech Industries", "Laura Sánchez"},
	{"SmartByte Solutions", "Diego Fernández"},
	{"QuantumLink Technologies", "Elena Gómez"},
	{"FusionTech Innovations", "Pablo Ruiz"},
	{"NexGen Systems", "Isabel Torres"},
	{"AlphaByte Corporation", "Andrés Navarro"},
}

var (
	manufacturers = []string{"TechCorp", "InnovaSystems", "ElectroGlobal", "MegaBytes", "SmartTech", "FutureTech",
		"QuantumComputers", "CyberSolutions", "NexGen", "AlphaTech"}
	cities         = []string{"Madrid", "Barcelona", "Valencia", "Sevilla"}
	colors         = []string{"Negro", "Blanco", "Gris", "Azul", "Rojo", "Plata", "Oro"}
	paymentMethods = []string{"Transferencia bancaria", "Tarjeta de crédito", "PayPal", "Domiciliación bancaria"}
)

// options parámetros de la carga de datos.
type options struct {
	Customers       int
	Products        int
	LowStock        int
	Sales           int
	Purchases       int
	Days            int
	SalesRetention  int
	AdminPassword   string
	CustomerPrefix  string
	CustomerPassMsk string // password de cliente: prefijo + índice
}

func defaultOptions() options {
	return options{
		Customers:       10,
		Products:        100,
		LowStock:        20,
		Sales:           100,
		Purchases:       50,
		Days:            30,
		SalesRetention:  50,
		AdminPassword:   "admin123",
		CustomerPrefix:  "user",
		CustomerPassMsk: "password",
	}
}

// seeder genera datos de demostración a través de los puertos de repositorio.
type seeder struct {
	store repository.Store
	tx    repository.TxRunner
	auth  *auth.AuthUseCase
	rng   *rand.Rand
	now   time.Time
	log   func(format string, args ...any)
}

// summary conteo de lo creado por una carga.
type summary struct {
	Users, Categories, Suppliers, Products, Sales, Purchases int
}

func (s *seeder) demo(ctx context.Context, opts options) (*summary, error) {
	out := &summary{}

	if created, err := s.auth.EnsureAdmin(ctx, "admin", "admin@example.com", opts.AdminPassword); err != nil {
		return nil, fmt.Errorf("administrador: %w", err)
	} else if created {
		out.Users++
	}
	var customers []string
	for i := 0; i < opts.Customers; i++ {
		username := fmt.Sprintf("%s%d", opts.CustomerPrefix, i)
		existing, err := s.store.Users().GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			customers = append(customers, existing.ID)
			continue
		}
		pass := fmt.Sprintf("%s%d", opts.CustomerPassMsk, i)
		u, err := s.auth.RegisterUser(ctx, dto.RegisterRequest{
			Username: username, Email: username + "@example.com", Password: pass, ConfirmPassword: pass,
		})
		if err != nil {
			return nil, fmt.Errorf("cliente %s: %w", username, err)
		}
		customers = append(customers, u.ID)
		out.Users++
	}
	s.log("Usuarios creados: %d", out.Users)

	categories := make(map[string]string, len(categoryOrder))
	for _, name := range categoryOrder {
		id, created, err := s.category(ctx, name)
		if err != nil {
			return nil, err
		}
		categories[name] = id
		if created {
			out.Categories++
		}
	}
	s.log("Categorías creadas: %d", out.Categories)

	suppliers := make([]*entity.Supplier, 0, len(demoSuppliers))
	for _, d := range demoSuppliers {
		sup, err := s.supplier(ctx, d.name, d.contact)
		if err != nil {
			return nil, err
		}
		if sup != nil {
			suppliers = append(suppliers, sup)
			out.Suppliers++
		}
	}
	if len(suppliers) == 0 {
		all, err := s.store.Suppliers().ListActive(ctx)
		if err != nil {
			return nil, err
		}
		suppliers = all
	}
	s.log("Proveedores creados: %d", out.Suppliers)

	products := make([]*entity.Product, 0, opts.Products)
	for i := 0; i < opts.Products; i++ {
		cat := categoryOrder[s.rng.IntN(len(categoryOrder))]
		p, err := s.product(ctx, cat, categories[cat])
		if err != nil {
			return nil, err
		}
		if len(suppliers) > 0 {
			sup := suppliers[s.rng.IntN(len(suppliers))]
			if err := s.store.Products().AddSupplier(ctx, p.ID, sup.ID); err != nil {
				return nil, err
			}
			p.Suppliers = []entity.SupplierRef{{ID: sup.ID, CompanyName: sup.CompanyName}}
		}
		products = append(products, p)
	}
	out.Products = len(products)
	s.log("Productos creados: %d", out.Products)

	// stock por debajo del 90% del mínimo
	for _, idx := range s.rng.Perm(len(products))[:min(opts.LowStock, len(products))] {
		p := products[idx]
		target := s.rng.IntN(int(float64(p.MinStock)*0.9) + 1)
		if err := s.store.Products().AdjustStock(ctx, p.ID, target-p.Stock); err != nil {
			return nil, err
		}
		p.Stock = target
	}

	if len(customers) > 0 && len(products) > 0 {
		for i := 0; i < opts.Sales; i++ {
			ok, err := s.sale(ctx, customers[s.rng.IntN(len(customers))], products, opts)
			if err != nil {
				return nil, err
			}
			if ok {
				out.Sales++
			}
		}
	}
	if len(suppliers) > 0 && len(products) > 0 {
		for i := 0; i < opts.Purchases; i++ {
			if err := s.purchase(ctx, suppliers[s.rng.IntN(len(suppliers))], products, opts); err != nil {
				return nil, err
			}
			out.Purchases++
		}
	}
	s.log("Ventas: %d, compras: %d", out.Sales, out.Purchases)
	return out, nil
}

func (s *seeder) category(ctx context.Context, name string) (string, bool, error) {
	existing, err := s.store.Categories().GetByName(ctx, name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	c := &entity.Category{ID: entity.NewID(), Name: name}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		return "", false, fmt.Errorf("categoría %s: %w", name, err)
	}
	return c.ID, true, nil
}

// supplier crea el proveedor de demostración; nil si el CIF aleatorio ya existe.
func (s *seeder) supplier(ctx context.Context, name, contact string) (*entity.Supplier, error) {
	discount := decimal.NewFromFloat(1 + s.rng.Float64()*14).Round(2)
	iva := decimal.NewFromInt(21)
	city := pick(s.rng, cities)
	sup := &entity.Supplier{
		ID:            entity.NewID(),
		CompanyName:   name,
		ContactName:   contact,
		Email:         "contact@" + strings.ToLower(strings.ReplaceAll(name, " ", "")) + ".com",
		Phone:         "+" + digits(s.rng, 10),
		Address:       fmt.Sprintf("Calle %d, %s", s.rng.IntN(100)+1, pick(s.rng, cities)),
		City:          city,
		Country:       "España",
		PostalCode:    strconv.Itoa(10000 + s.rng.IntN(90000)),
		CIF:           "B" + digits(s.rng, 8),
		Discount:      &discount,
		IVA:           &iva,
		PaymentMethod: pick(s.rng, paymentMethods),
		BankAccount:   "ES" + digits(s.rng, 18),
		Notes:         "Proveedor especializado en " + pick(s.rng, []string{"hardware", "software", "periféricos", "redes", "componentes"}),
		CreatedAt:     s.now,
		UpdatedAt:     s.now,
	}
	if err := s.store.Suppliers().Create(ctx, sup); err != nil {
		if errors.Is(err, domain.ErrDuplicateCIF) {
			return nil, nil
		}
		return nil, fmt.Errorf("proveedor %s: %w", name, err)
	}
	return sup, nil
}

func (s *seeder) product(ctx context.Context, category, categoryID string) (*entity.Product, error) {
	weight := decimal.NewFromFloat(0.1 + s.rng.Float64()*19.9).Round(2)
	p := &entity.Product{
		Name:         pick(s.rng, demoCategories[category]) + " " + pick(s.rng, manufacturers),
		Description:  "Producto de alta calidad en la categoría de " + strings.ToLower(category),
		Price:        decimal.NewFromFloat(10 + s.rng.Float64()*490).Round(2),
		Stock:        10 + s.rng.IntN(491),
		MinStock:     5 + s.rng.IntN(46),
		Location:     "Almacén " + pick(s.rng, []string{"A", "B", "C", "D", "E"}),
		Color:        pick(s.rng, colors),
		Weight:       &weight,
		Dimensions:   fmt.Sprintf("%dx%dx%d cm", s.rng.IntN(100)+1, s.rng.IntN(100)+1, s.rng.IntN(100)+1),
		Manufacturer: pick(s.rng, manufacturers),
		CategoryID:   categoryID,
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}
	// referencias aleatorias: reintentar ante colisión
	for attempt := 0; ; attempt++ {
		p.ID = entity.NewID()
		p.ReferenceNumber = fmt.Sprintf("REF%05d", 10000+s.rng.IntN(90000))
		err := s.store.Products().Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference) || attempt >= 5 {
			return nil, fmt.Errorf("producto %s: %w", p.Name, err)
		}
	}
}

// sale venta histórica de 1 a 3 líneas; false si ninguna línea tenía stock.
func (s *seeder) sale(ctx context.Context, userID string, products []*entity.Product, opts options) (bool, error) {
	sale := &entity.Sale{
		ID:              entity.NewID(),
		UserID:          userID,
		Date:            s.randomDate(opts.Days),
		ShippingAddress: fmt.Sprintf("Calle %d, %s", s.rng.IntN(100)+1, pick(s.rng, cities)),
		PaymentMethod:   "card ****" + digits(s.rng, 4),
	}
	used := map[string]bool{}
	for n := 1 + s.rng.IntN(3); n > 0; n-- {
		p := products[s.rng.IntN(len(products))]
		if used[p.ID] || p.Stock <= 0 {
			continue
		}
		q := min(1+s.rng.IntN(5), p.Stock)
		item := entity.SaleItem{ID: entity.NewID(), SaleID: sale.ID, ProductID: p.ID, Quantity: q, Price: p.Price}
		if sup := p.PrimarySupplier(); sup != nil {
			id := sup.ID
			item.SupplierID = &id
		}
		sale.Items = append(sale.Items, item)
		used[p.ID] = true
	}
	if len(sale.Items) == 0 {
		return false, nil
	}
	sale.Total = sale.ComputeTotal()
	err := s.tx.Run(ctx, func(tx repository.Store) error {
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return err
		}
		for _, it := range sale.Items {
			if err := tx.Products().AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
				return err
			}
		}
		_, err := tx.Sales().PruneUser(ctx, userID, opts.SalesRetention)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("venta: %w", err)
	}
	for _, it := range sale.Items {
		for _, p := range products {
			if p.ID == it.ProductID {
				p.Stock -= it.Quantity
			}
		}
	}
	return true, nil
}

// purchase pedido histórico de 1 a 5 líneas con el descuento del proveedor.
func (s *seeder) purchase(ctx context.Context, sup *entity.Supplier, products []*entity.Product, opts options) error {
	purchase := &entity.Purchase{
		ID:         entity.NewID(),
		SupplierID: sup.ID,
		Date:       s.randomDate(opts.Days),
		Message:    "Pedido de reposición",
	}
	used := map[string]bool{}
	for n := 1 + s.rng.IntN(5); n > 0; n-- {
		p := products[s.rng.IntN(len(products))]
		if used[p.ID] {
			continue
		}
		purchase.Items = append(purchase.Items, entity.PurchaseItem{
			ID:         entity.NewID(),
			PurchaseID: purchase.ID,
			ProductID:  p.ID,
			Quantity:   10 + s.rng.IntN(41),
			Price:      sup.DiscountedPrice(p.Price),
		})
		used[p.ID] = true
	}
	purchase.Total = purchase.ComputeTotal()
	err := s.tx.Run(ctx, func(tx repository.Store) error {
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return err
		}
		for _, it := range purchase.Items {
			if err := tx.Products().AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("compra: %w", err)
	}
	for _, it := range purchase.Items {
		for _, p := range products {
			if p.ID == it.ProductID {
				p.Stock += it.Quantity
			}
		}
	}
	return nil
}

func (s *seeder) randomDate(days int) time.Time {
	span := time.Duration(days) * 24 * time.Hour
	return s.now.Add(-time.Duration(s.rng.Int64N(int64(span))))
}

// csvColumns cabecera esperada del CSV de productos.
var csvColumns = []string{"name", "description", "price", "stock", "min_stock", "reference_number", "category", "manufacturer"}

// textDecoder decodificador de la codificación del CSV (utf8, latin1, windows1252).
func textDecoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", "utf8":
		return unicode.UTF8, nil
	case "latin1", "iso88591":
		return charmap.ISO8859_1, nil
	case "windows1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", name)
}

// importCSV da de alta productos desde un CSV separado por ';' o ','.
// Las categorías inexistentes se crean; las referencias duplicadas se omiten.
func (s *seeder) importCSV(ctx context.Context, r io.Reader, enc encoding.Encoding) (imported, skipped int, err error) {
	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("leer cabecera: %w", err)
	}
	if len(header) == 1 && strings.Contains(header[0], ";") {
		return 0, 0, errors.New("separador ';' detectado: exporte el CSV con ','")
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return 0, 0, fmt.Errorf("falta la columna %q", col)
		}
	}

	categories := map[string]string{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		p, err := s.csvProduct(ctx, field, categories)
		if err != nil {
			return imported, skipped, fmt.Errorf("línea %d: %w", line, err)
		}
		if err := s.store.Products().Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicateReference) {
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("línea %d: %w", line, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func (s *seeder) csvProduct(ctx context.Context, field func(string) string, categories map[string]string) (*entity.Product, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(field("price"), ",", "."))
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("precio inválido %q", field("price"))
	}
	stock, err := strconv.Atoi(field("stock"))
	if err != nil || stock < 0 {
		return nil, fmt.Errorf("stock inválido %q", field("stock"))
	}
	minStock, err := strconv.Atoi(field("min_stock"))
	if err != nil || minStock < 0 {
		return nil, fmt.Errorf("stock mínimo inválido %q", field("min_stock"))
	}
	catName := field("category")
	catID, ok := categories[catName]
	if !ok {
		id, _, err := s.category(ctx, catName)
		if err != nil {
			return nil, err
		}
		categories[catName] = id
		catID = id
	}
	return &entity.Product{
		ID:              entity.NewID(),
		Name:            field("name"),
		Description:     field("description"),
		Price:           price,
		Stock:           stock,
		MinStock:        minStock,
		ReferenceNumber: field("reference_number"),
		Manufacturer:    field("manufacturer"),
		CategoryID:      catID,
		CreatedAt:       s.now,
		UpdatedAt:       s.now,
	}, nil
}

func pick(rng *rand.Rand, xs []string) string {
	return xs[rng.IntN(len(xs))]
}

func digits(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rng.IntN(10)))
	}
	return b.String()
}
