package dto

import "github.com/shopspring/decimal"

// SupplierListQuery parámetros del listado de proveedores.
type SupplierListQuery struct {
	Page   int    `query:"page"`
	Search string `query:"search"`
}

// SupplierFormRequest formulario de alta/edición de proveedor.
// Discount e IVA llegan como texto opcional y se validan en [0,100].
type SupplierFormRequest struct {
	CompanyName   string `json:"company_name" form:"company_name"`
	ContactName   string `json:"contact_name" form:"contact_name"`
	Phone         string `json:"phone" form:"phone"`
	Email         string `json:"email" form:"email"`
	Address       string `json:"address" form:"address"`
	City          string `json:"city" form:"city"`
	Country       string `json:"country" form:"country"`
	PostalCode    string `json:"postal_code" form:"postal_code"`
	CIF           string `json:"cif" form:"cif"`
	Discount      string `json:"discount" form:"discount"`
	IVA           string `json:"iva" form:"iva"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
	BankAccount   string `json:"bank_account" form:"bank_account"`
	Notes         string `json:"notes" form:"notes"`
}

// SupplierProductDTO producto activo suministrado por un proveedor.
type SupplierProductDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID                string               `json:"id"`
	CompanyName       string               `json:"company_name"`
	ContactName       string               `json:"contact_name"`
	Phone             string               `json:"phone"`
	Email             string               `json:"email"`
	Address           string               `json:"address"`
	City              string               `json:"city"`
	Country           string               `json:"country"`
	PostalCode        string               `json:"postal_code"`
	CIF               string               `json:"cif"`
	Discount          *decimal.Decimal     `json:"discount,omitempty"`
	IVA               *decimal.Decimal     `json:"iva,omitempty"`
	FormattedDiscount string               `json:"formatted_discount"`
	FormattedIVA      string               `json:"formatted_iva"`
	PaymentMethod     string               `json:"payment_method"`
	BankAccount       string               `json:"bank_account"`
	Notes             string               `json:"notes"`
	Products          []SupplierProductDTO `json:"products,omitempty"`
}

// SupplierListResponse página del listado de proveedores.
type SupplierListResponse struct {
	Suppliers  []SupplierResponse `json:"suppliers"`
	Pagination PageMeta           `json:"pagination"`
	Search     string             `json:"search"`
}
