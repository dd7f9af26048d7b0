package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// activeProducts productos no borrados, sin orden definido.
func (st *state) activeProducts() []*entity.Product {
	return entity.ActiveOnly(slices.Collect(maps.Values(st.products)))
}

// activeSuppliers proveedores no borrados, sin orden definido.
func (st *state) activeSuppliers() []*entity.Supplier {
	return entity.ActiveOnly(slices.Collect(maps.Values(st.suppliers)))
}

// containsFold búsqueda de subcadena sin distinguir mayúsculas (equivalente a ILIKE '%s%').
func containsFold(haystack, needle string) bool {
	return strings.Contains(fold.String(haystack), fold.String(needle))
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.write(func(st *state) error {
		for _, other := range st.users {
			if other.Username == u.Username {
				return domain.ErrUsernameTaken
			}
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.s.read(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				out = copyUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// ── categories ───────────────────────────────────────────────────────────────

type categoryRepo struct{ s *store }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.s.write(func(st *state) error {
		for _, other := range st.categories {
			if other.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *c
		st.categories[c.ID] = &cp
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.read(func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name {
				cp := *c
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.s.read(func(st *state) error {
		for _, c := range st.categories {
			cp := *c
			out = append(out, &cp)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

// ── products ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *store }

// hydrate copia el producto y carga categoría y proveedores activos en orden de asociación.
func (st *state) hydrate(p *entity.Product) *entity.Product {
	c := copyProduct(p)
	c.CategoryName = ""
	if cat, ok := st.categories[p.CategoryID]; ok {
		c.CategoryName = cat.Name
	}
	c.Suppliers = nil
	for _, l := range st.links {
		if l.productID != p.ID {
			continue
		}
		if s, ok := st.suppliers[l.supplierID]; ok && !s.IsDeleted {
			c.Suppliers = append(c.Suppliers, entity.SupplierRef{ID: s.ID, CompanyName: s.CompanyName})
		}
	}
	return c
}

func (st *state) unlinkWhere(match func(productSupplier) bool) {
	kept := st.links[:0]
	for _, l := range st.links {
		if !match(l) {
			kept = append(kept, l)
		}
	}
	st.links = kept
}

func (st *state) referenceTaken(ref, exceptID string) bool {
	for _, p := range st.products {
		if p.ReferenceNumber == ref && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(func(st *state) error {
		if st.referenceTaken(p.ReferenceNumber, p.ID) {
			return domain.ErrDuplicateReference
		}
		c := copyProduct(p)
		c.Suppliers = nil
		st.products[p.ID] = c
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = st.hydrate(p)
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: las transacciones ya están serializadas.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if st.referenceTaken(p.ReferenceNumber, p.ID) {
			return domain.ErrDuplicateReference
		}
		c := copyProduct(p)
		c.Suppliers = nil
		c.SoftDelete = cur.SoftDelete
		c.CreatedAt = cur.CreatedAt
		st.products[p.ID] = c
		return nil
	})
}

func (r *productRepo) SetSuppliers(_ context.Context, productID string, supplierIDs []string) error {
	return r.s.write(func(st *state) error {
		st.unlinkWhere(func(l productSupplier) bool { return l.productID == productID })
		for _, sid := range supplierIDs {
			st.link(productID, sid)
		}
		return nil
	})
}

func (r *productRepo) AddSupplier(_ context.Context, productID, supplierID string) error {
	return r.s.write(func(st *state) error {
		st.link(productID, supplierID)
		return nil
	})
}

func (st *state) link(productID, supplierID string) {
	for _, l := range st.links {
		if l.productID == productID && l.supplierID == supplierID {
			return
		}
	}
	st.links = append(st.links, productSupplier{productID: productID, supplierID: supplierID})
}

func (r *productRepo) AdjustStock(_ context.Context, productID string, delta int) error {
	return r.s.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock += delta
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *productRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	return r.s.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.MarkDeleted(at)
		p.UpdatedAt = at
		for cid, it := range st.cart {
			if it.ProductID == id {
				delete(st.cart, cid)
			}
		}
		st.unlinkWhere(func(l productSupplier) bool { return l.productID == id })
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var (
		out   []*entity.Product
		total int
	)
	search := strings.TrimSpace(f.Search)
	err := r.s.read(func(st *state) error {
		var all []*entity.Product
		for _, p := range st.activeProducts() {
			if search != "" && !containsFold(p.Name, search) && !containsFold(p.Description, search) {
				continue
			}
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if f.LowStock && !p.IsLowStock() {
				continue
			}
			all = append(all, p)
		}
		sortProducts(all)
		total = len(all)
		for _, p := range page(all, limit, offset) {
			out = append(out, st.hydrate(p))
		}
		return nil
	})
	return out, total, err
}

func (r *productRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.read(func(st *state) error {
		var all []*entity.Product
		for _, p := range st.activeProducts() {
			if p.IsLowStock() {
				all = append(all, p)
			}
		}
		sort.Slice(all, func(i, j int) bool {
			di, dj := all[i].MinStock-all[i].Stock, all[j].MinStock-all[j].Stock
			if di != dj {
				return di > dj
			}
			return all[i].Name < all[j].Name
		})
		for _, p := range all {
			out = append(out, st.hydrate(p))
		}
		return nil
	})
	return out, err
}

func sortProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

// ── suppliers ────────────────────────────────────────────────────────────────

type supplierRepo struct{ s *store }

func (st *state) cifTaken(cif, exceptID string) bool {
	for _, s := range st.suppliers {
		if s.CIF == cif && s.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.s.write(func(st *state) error {
		if st.cifTaken(s.CIF, s.ID) {
			return domain.ErrDuplicateCIF
		}
		c := copySupplier(s)
		c.Products = nil
		st.suppliers[s.ID] = c
		return nil
	})
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.s.read(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok {
			return nil
		}
		out = copySupplier(s)
		out.Products = nil
		var prods []*entity.Product
		for _, l := range st.links {
			if l.supplierID != id {
				continue
			}
			if p, ok := st.products[l.productID]; ok && !p.IsDeleted {
				prods = append(prods, p)
			}
		}
		sortProducts(prods)
		for _, p := range prods {
			out.Products = append(out.Products, entity.ProductRef{ID: p.ID, Name: p.Name, Stock: p.Stock})
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.s.write(func(st *state) error {
		cur, ok := st.suppliers[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if st.cifTaken(s.CIF, s.ID) {
			return domain.ErrDuplicateCIF
		}
		c := copySupplier(s)
		c.Products = nil
		c.SoftDelete = cur.SoftDelete
		c.CreatedAt = cur.CreatedAt
		st.suppliers[s.ID] = c
		return nil
	})
}

func (r *supplierRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	return r.s.write(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.MarkDeleted(at)
		s.UpdatedAt = at
		st.unlinkWhere(func(l productSupplier) bool { return l.supplierID == id })
		return nil
	})
}

func (r *supplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error) {
	var (
		out   []*entity.Supplier
		total int
	)
	search = strings.TrimSpace(search)
	err := r.s.read(func(st *state) error {
		var all []*entity.Supplier
		for _, s := range st.activeSuppliers() {
			if search != "" && !containsFold(s.CompanyName, search) &&
				!containsFold(s.ContactName, search) && !containsFold(s.Email, search) {
				continue
			}
			all = append(all, s)
		}
		sortSuppliers(all)
		total = len(all)
		for _, s := range page(all, limit, offset) {
			out = append(out, copySupplier(s))
		}
		return nil
	})
	return out, total, err
}

func (r *supplierRepo) ListActive(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.s.read(func(st *state) error {
		all := st.activeSuppliers()
		sortSuppliers(all)
		for _, s := range all {
			out = append(out, copySupplier(s))
		}
		return nil
	})
	return out, err
}

func sortSuppliers(list []*entity.Supplier) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CompanyName != list[j].CompanyName {
			return list[i].CompanyName < list[j].CompanyName
		}
		return list[i].ID < list[j].ID
	})
}
