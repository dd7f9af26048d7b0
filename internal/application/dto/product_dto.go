package dto

import "github.com/shopspring/decimal"

// ProductListQuery parámetros del listado del catálogo (GET /products).
type ProductListQuery struct {
	Page     int    `query:"page"`
	Search   string `query:"search"`
	Category string `query:"category"`
	LowStock bool   `query:"low_stock"`
}

// SupplierRefDTO proveedor resumido (id + razón social).
type SupplierRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse salida de un producto. Los campos de stock solo se envían a administradores.
type ProductResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	FormattedPrice    string           `json:"formatted_price"`
	Stock             *int             `json:"stock,omitempty"`
	MinStock          *int             `json:"min_stock,omitempty"`
	IsLowStock        *bool            `json:"is_low_stock,omitempty"`
	StockStatus       string           `json:"stock_status,omitempty"`
	SuggestedOrderQty *int             `json:"suggested_order_qty,omitempty"`
	Location          string           `json:"location"`
	ReferenceNumber   string           `json:"reference_number"`
	Color             string           `json:"color"`
	Weight            *decimal.Decimal `json:"weight,omitempty"`
	FormattedWeight   string           `json:"formatted_weight"`
	Dimensions        string           `json:"dimensions"`
	Manufacturer      string           `json:"manufacturer"`
	CategoryID        string           `json:"category_id"`
	Category          string           `json:"category"`
	Suppliers         []SupplierRefDTO `json:"suppliers"`
}

// ProductListResponse página del catálogo con las categorías para el filtro.
type ProductListResponse struct {
	Products   []ProductResponse  `json:"products"`
	Pagination PageMeta           `json:"pagination"`
	Categories []CategoryResponse `json:"categories"`
	Search     string             `json:"search"`
	Category   string             `json:"category"`
	LowStock   bool               `json:"low_stock"`
}

// ProductInfoResponse respuesta de /api/product_info/:id.
type ProductInfoResponse struct {
	Price     decimal.Decimal  `json:"price"`
	Suppliers []SupplierRefDTO `json:"suppliers"`
}

// ProductFormRequest formulario de alta/edición de producto.
// Los campos numéricos llegan como texto y se validan en el formulario.
// Supplier es el id de un proveedor existente o "new" para crearlo en línea con NewSupplier.
type ProductFormRequest struct {
	Name            string `json:"name" form:"name"`
	Description     string `json:"description" form:"description"`
	Price           string `json:"price" form:"price"`
	Stock           string `json:"stock" form:"stock"`
	MinStock        string `json:"min_stock" form:"min_stock"`
	Location        string `json:"location" form:"location"`
	ReferenceNumber string `json:"reference_number" form:"reference_number"`
	Color           string `json:"color" form:"color"`
	Weight          string `json:"weight" form:"weight"`
	Dimensions      string `json:"dimensions" form:"dimensions"`
	Category        string `json:"category" form:"category"`
	Manufacturer    string `json:"manufacturer" form:"manufacturer"`
	Supplier        string `json:"supplier" form:"supplier"`

	NewSupplier SupplierFormRequest `json:"new_supplier" form:"new_supplier"`
}

// ProductFormOptions opciones de los selectores del formulario de producto.
type ProductFormOptions struct {
	Categories []CategoryResponse `json:"categories"`
	Suppliers  []SupplierRefDTO   `json:"suppliers"`
}

// LowStockResponse listado de productos con stock bajo.
type LowStockResponse struct {
	Products []ProductResponse `json:"products"`
}
