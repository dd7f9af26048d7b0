package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// ── cart ─────────────────────────────────────────────────────────────────────

type cartRepo struct{ s *store }

func (r *cartRepo) ListByUser(_ context.Context, userID string) ([]*entity.CartItem, error) {
	var out []*entity.CartItem
	err := r.s.read(func(st *state) error {
		for _, it := range st.cart {
			if it.UserID != userID {
				continue
			}
			c := copyCartItem(it)
			if p, ok := st.products[it.ProductID]; ok {
				c.Product = st.hydrate(p)
			}
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool {
			ni, nj := productName(out[i]), productName(out[j])
			if ni != nj {
				return ni < nj
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func productName(it *entity.CartItem) string {
	if it.Product == nil {
		return ""
	}
	return it.Product.Name
}

func (r *cartRepo) Get(_ context.Context, userID, productID string) (*entity.CartItem, error) {
	var out *entity.CartItem
	err := r.s.read(func(st *state) error {
		for _, it := range st.cart {
			if it.UserID == userID && it.ProductID == productID {
				out = copyCartItem(it)
				out.Product = nil
			}
		}
		return nil
	})
	return out, err
}

func (r *cartRepo) Create(_ context.Context, it *entity.CartItem) error {
	return r.s.write(func(st *state) error {
		for _, other := range st.cart {
			if other.UserID == it.UserID && other.ProductID == it.ProductID {
				return domain.ErrDuplicate
			}
		}
		c := copyCartItem(it)
		c.Product = nil
		st.cart[it.ID] = c
		return nil
	})
}

func (r *cartRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	return r.s.write(func(st *state) error {
		it, ok := st.cart[id]
		if !ok {
			return domain.ErrCartLineNotFound
		}
		it.Quantity = quantity
		return nil
	})
}

func (r *cartRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.cart[id]; !ok {
			return domain.ErrCartLineNotFound
		}
		delete(st.cart, id)
		return nil
	})
}

func (r *cartRepo) ClearByUser(_ context.Context, userID string) error {
	return r.s.write(func(st *state) error {
		for id, it := range st.cart {
			if it.UserID == userID {
				delete(st.cart, id)
			}
		}
		return nil
	})
}

// ── sales ────────────────────────────────────────────────────────────────────

type saleRepo struct{ s *store }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.s.write(func(st *state) error {
		c := copySale(s)
		for i := range c.Items {
			c.Items[i].SaleID = c.ID
			c.Items[i].ProductName = ""
		}
		st.sales[s.ID] = c
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.read(func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return nil
		}
		out = copySale(s)
		for i := range out.Items {
			if p, ok := st.products[out.Items[i].ProductID]; ok {
				out.Items[i].ProductName = p.Name
			}
		}
		sort.SliceStable(out.Items, func(i, j int) bool { return out.Items[i].ProductName < out.Items[j].ProductName })
		return nil
	})
	return out, err
}

func (r *saleRepo) ListByUser(_ context.Context, userID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.s.read(func(st *state) error {
		for _, s := range st.userSalesDesc(userID) {
			c := copySale(s)
			c.Items = nil
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) PruneUser(_ context.Context, userID string, keep int) (int, error) {
	removed := 0
	err := r.s.write(func(st *state) error {
		sales := st.userSalesDesc(userID)
		if len(sales) <= keep {
			return nil
		}
		for _, s := range sales[keep:] {
			delete(st.sales, s.ID)
			removed++
		}
		return nil
	})
	return removed, err
}

// userSalesDesc ventas del usuario por fecha desc, id desc.
func (st *state) userSalesDesc(userID string) []*entity.Sale {
	var list []*entity.Sale
	for _, s := range st.sales {
		if s.UserID == userID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return list
}

// ── purchases ────────────────────────────────────────────────────────────────

type purchaseRepo struct{ s *store }

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.s.write(func(st *state) error {
		c := copyPurchase(p)
		c.SupplierName = ""
		for i := range c.Items {
			c.Items[i].PurchaseID = c.ID
		}
		st.purchases[p.ID] = c
		return nil
	})
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.s.read(func(st *state) error {
		p, ok := st.purchases[id]
		if !ok {
			return nil
		}
		out = copyPurchase(p)
		if s, ok := st.suppliers[p.SupplierID]; ok {
			out.SupplierName = s.CompanyName
		}
		for i := range out.Items {
			if prod, ok := st.products[out.Items[i].ProductID]; ok {
				out.Items[i].ProductName = prod.Name
				out.Items[i].Reference = prod.ReferenceNumber
			}
		}
		return nil
	})
	return out, err
}

func (r *purchaseRepo) Prune(_ context.Context, keep int) (int, error) {
	removed := 0
	err := r.s.write(func(st *state) error {
		list := st.purchasesDesc()
		if len(list) <= keep {
			return nil
		}
		for _, p := range list[keep:] {
			delete(st.purchases, p.ID)
			removed++
		}
		return nil
	})
	return removed, err
}

// purchasesDesc pedidos por fecha desc, id desc.
func (st *state) purchasesDesc() []*entity.Purchase {
	list := make([]*entity.Purchase, 0, len(st.purchases))
	for _, p := range st.purchases {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return list
}
