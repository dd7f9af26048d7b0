package memory

import (
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Weight = copyDecimal(p.Weight)
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		c.DeletedAt = &t
	}
	c.Suppliers = append([]entity.SupplierRef(nil), p.Suppliers...)
	return &c
}

func copySupplier(s *entity.Supplier) *entity.Supplier {
	c := *s
	c.Discount = copyDecimal(s.Discount)
	c.IVA = copyDecimal(s.IVA)
	if s.DeletedAt != nil {
		t := *s.DeletedAt
		c.DeletedAt = &t
	}
	c.Products = append([]entity.ProductRef(nil), s.Products...)
	return &c
}

func copyCartItem(it *entity.CartItem) *entity.CartItem {
	c := *it
	if it.Product != nil {
		c.Product = copyProduct(it.Product)
	}
	return &c
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.SupplierID = copyString(s.SupplierID)
	c.Items = make([]entity.SaleItem, len(s.Items))
	for i, it := range s.Items {
		it.SupplierID = copyString(it.SupplierID)
		c.Items[i] = it
	}
	return &c
}

func copyPurchase(p *entity.Purchase) *entity.Purchase {
	c := *p
	c.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &c
}
