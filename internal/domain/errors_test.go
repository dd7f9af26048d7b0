package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())
	v.Add("cif", "El CIF ya existe")
	v.Add("cif", "otro")
	err := fmt.Errorf("guardar: %w", v.OrNil())

	assert.ErrorIs(t, err, ErrInvalidInput)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"El CIF ya existe", "otro"}, ve.Fields["cif"])
	assert.Equal(t, "validación: cif: El CIF ya existe; otro", v.Error())
}

func TestBusinessError(t *testing.T) {
	err := fmt.Errorf("checkout: %w", NewBusinessError(ErrInsufficientStock, "No hay stock disponible para Martillo"))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	var be *BusinessError
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, "No hay stock disponible para Martillo", be.Message)
}
