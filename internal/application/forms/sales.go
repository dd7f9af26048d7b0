package forms

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// Checkout valida el formulario de pago simulado.
func Checkout(in dto.CheckoutRequest) error {
	v := domain.NewValidationError()
	required(v, "name", in.Name, msgRequired)
	if required(v, "email", in.Email, msgRequired) {
		validEmail(v, "email", strings.TrimSpace(in.Email))
	}
	required(v, "address", in.Address, msgRequired)
	card := strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", "")
	if required(v, "card_number", card, msgRequired) {
		if len(card) != 16 || !govalidator.IsNumeric(card) {
			v.Add("card_number", "El número de tarjeta debe tener 16 dígitos.")
		}
	}
	if required(v, "expiry", in.Expiry, msgRequired) && !expiryPattern.MatchString(strings.TrimSpace(in.Expiry)) {
		v.Add("expiry", "La fecha de caducidad debe tener el formato MM/AA.")
	}
	cvv := strings.TrimSpace(in.CVV)
	if required(v, "cvv", cvv, msgRequired) {
		if !govalidator.StringLength(cvv, "3", "4") || !govalidator.IsNumeric(cvv) {
			v.Add("cvv", "El CVV debe tener 3 o 4 dígitos.")
		}
	}
	return v.OrNil()
}

// CartQuantity valida la cantidad de una línea del carrito.
func CartQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.FieldError("quantity", "La cantidad debe ser mayor que cero")
	}
	return nil
}

// NotifyInput notificación a proveedor ya validada.
type NotifyInput struct {
	ProductID  string
	SupplierID string
	Quantity   int
	Message    string
}

// NotifySupplier valida el formulario de notificación a proveedor.
func NotifySupplier(in dto.NotifySupplierRequest) (*NotifyInput, error) {
	v := domain.NewValidationError()
	out := &NotifyInput{
		ProductID:  strings.TrimSpace(in.ProductID),
		SupplierID: strings.TrimSpace(in.SupplierID),
		Message:    strings.TrimSpace(in.Message),
	}
	required(v, "productId", out.ProductID, msgRequired)
	required(v, "supplier", out.SupplierID, msgRequired)
	if required(v, "quantity", in.Quantity, msgRequired) {
		q, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
		if err != nil || q <= 0 {
			v.Add("quantity", "La cantidad debe ser mayor que cero")
		}
		out.Quantity = q
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
