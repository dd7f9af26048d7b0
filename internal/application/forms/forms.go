// Package forms valida y normaliza los formularios de entrada. Cada función devuelve
// un *domain.ValidationError con los mensajes por campo que se muestran al usuario.
package forms

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	msgRequired     = "Este campo es obligatorio."
	msgInvalidEmail = "Por favor, introduce una dirección de correo electrónico válida."
	msgNotNumber    = "Introduce un número válido."
	msgNotInteger   = "Introduce un número entero válido."
	msgNonNegative  = "El valor debe ser mayor o igual que 0."
	msgPercentRange = "El valor debe estar entre 0 y 100."
)

var (
	hundred = decimal.NewFromInt(100)
	// emailPattern formato de correo aceptado en el registro.
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func required(v *domain.ValidationError, field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, msg)
		return false
	}
	return true
}

func validEmail(v *domain.ValidationError, field, value string) {
	if !govalidator.IsEmail(value) {
		v.Add(field, msgInvalidEmail)
	}
}

// decimalField parsea un número >= 0. Devuelve nil si está vacío o es inválido.
func decimalField(v *domain.ValidationError, field, raw string, isRequired bool) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if isRequired {
			v.Add(field, msgRequired)
		}
		return nil
	}
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		v.Add(field, msgNotNumber)
		return nil
	}
	if d.IsNegative() {
		v.Add(field, msgNonNegative)
		return nil
	}
	return &d
}

// intField parsea un entero >= 0 obligatorio.
func intField(v *domain.ValidationError, field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, msgRequired)
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(field, msgNotInteger)
		return 0
	}
	if n < 0 {
		v.Add(field, msgNonNegative)
		return 0
	}
	return n
}

// percentField parsea un porcentaje opcional en [0,100].
func percentField(v *domain.ValidationError, field, raw string) *decimal.Decimal {
	d := decimalField(v, field, raw, false)
	if d != nil && d.GreaterThan(hundred) {
		v.Add(field, msgPercentRange)
		return nil
	}
	return d
}
