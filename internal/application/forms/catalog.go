package forms

import (
	"strings"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/shopspring/decimal"
)

// NewSupplierChoice valor del selector de proveedor que pide crear uno en línea.
const NewSupplierChoice = "new"

// SupplierInput formulario de proveedor ya validado.
type SupplierInput struct {
	CompanyName   string
	ContactName   string
	Phone         string
	Email         string
	Address       string
	City          string
	Country       string
	PostalCode    string
	CIF           string
	Discount      *decimal.Decimal
	IVA           *decimal.Decimal
	PaymentMethod string
	BankAccount   string
	Notes         string
}

// ProductInput formulario de producto ya validado.
// SupplierID vacío con NewSupplier != nil indica alta de proveedor en línea.
type ProductInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	Stock           int
	MinStock        int
	Location        string
	ReferenceNumber string
	Color           string
	Weight          *decimal.Decimal
	Dimensions      string
	CategoryID      string
	Manufacturer    string
	SupplierID      string
	NewSupplier     *SupplierInput
}

// Supplier valida el formulario completo de proveedor.
func Supplier(in dto.SupplierFormRequest) (*SupplierInput, error) {
	v := domain.NewValidationError()
	out := supplierFields(v, in, "", true)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// supplierFields valida los campos de proveedor con el prefijo dado. strict exige todos
// los datos de contacto (formulario de proveedor); el alta en línea solo exige la razón social.
func supplierFields(v *domain.ValidationError, in dto.SupplierFormRequest, prefix string, strict bool) *SupplierInput {
	out := &SupplierInput{
		CompanyName:   strings.TrimSpace(in.CompanyName),
		ContactName:   strings.TrimSpace(in.ContactName),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		Country:       strings.TrimSpace(in.Country),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		CIF:           strings.TrimSpace(in.CIF),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		BankAccount:   strings.TrimSpace(in.BankAccount),
		Notes:         strings.TrimSpace(in.Notes),
	}
	if required(v, prefix+"company_name", out.CompanyName, msgRequired) && len([]rune(out.CompanyName)) < 3 {
		v.Add(prefix+"company_name", "El nombre de la empresa debe tener al menos 3 caracteres.")
	}
	if strict {
		required(v, prefix+"contact_name", out.ContactName, msgRequired)
		required(v, prefix+"phone", out.Phone, msgRequired)
		if required(v, prefix+"email", out.Email, msgRequired) {
			validEmail(v, prefix+"email", out.Email)
		}
		required(v, prefix+"address", out.Address, msgRequired)
		required(v, prefix+"city", out.City, msgRequired)
		required(v, prefix+"country", out.Country, msgRequired)
		required(v, prefix+"postal_code", out.PostalCode, msgRequired)
		required(v, prefix+"cif", out.CIF, msgRequired)
	} else if out.Email != "" {
		validEmail(v, prefix+"email", out.Email)
	}
	out.Discount = percentField(v, prefix+"discount", in.Discount)
	out.IVA = percentField(v, prefix+"iva", in.IVA)
	return out
}

// Product valida el formulario de alta de producto. Con supplier="new" valida además el
// proveedor en línea; sus errores se devuelven con el prefijo "new_supplier_".
func Product(in dto.ProductFormRequest) (*ProductInput, error) {
	return product(in, true)
}

// ProductEdit valida el formulario de edición: el proveedor es opcional.
func ProductEdit(in dto.ProductFormRequest) (*ProductInput, error) {
	return product(in, false)
}

func product(in dto.ProductFormRequest, requireSupplier bool) (*ProductInput, error) {
	v := domain.NewValidationError()
	out := &ProductInput{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		Location:        strings.TrimSpace(in.Location),
		ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
		Color:           strings.TrimSpace(in.Color),
		Dimensions:      strings.TrimSpace(in.Dimensions),
		CategoryID:      strings.TrimSpace(in.Category),
		Manufacturer:    strings.TrimSpace(in.Manufacturer),
	}
	required(v, "name", out.Name, msgRequired)
	if p := decimalField(v, "price", in.Price, true); p != nil {
		out.Price = p.Round(2)
	}
	out.Stock = intField(v, "stock", in.Stock)
	out.MinStock = intField(v, "min_stock", in.MinStock)
	required(v, "reference_number", out.ReferenceNumber, msgRequired)
	out.Weight = decimalField(v, "weight", in.Weight, false)
	required(v, "category", out.CategoryID, msgRequired)
	required(v, "manufacturer", out.Manufacturer, msgRequired)

	supplier := strings.TrimSpace(in.Supplier)
	if requireSupplier {
		required(v, "supplier", supplier, msgRequired)
	}
	if supplier != "" {
		if supplier == NewSupplierChoice {
			out.NewSupplier = supplierFields(v, in.NewSupplier, "new_supplier_", false)
			if out.NewSupplier.CIF == "" {
				v.Add("new_supplier_cif", msgRequired)
			}
		} else {
			out.SupplierID = supplier
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
