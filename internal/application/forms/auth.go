package forms

import (
	"regexp"
	"strings"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Login valida el formulario de inicio de sesión.
func Login(in dto.LoginRequest) error {
	v := domain.NewValidationError()
	required(v, "username", in.Username, "El nombre de usuario es obligatorio.")
	required(v, "password", in.Password, "La contraseña es obligatoria.")
	return v.OrNil()
}

// Register valida el formulario de registro. La unicidad se comprueba en el caso de uso.
func Register(in dto.RegisterRequest) error {
	v := domain.NewValidationError()
	username := strings.TrimSpace(in.Username)
	if required(v, "username", username, "El nombre de usuario es obligatorio.") {
		if n := len([]rune(username)); n < 3 || n > 64 {
			v.Add("username", "El nombre de usuario debe tener entre 3 y 64 caracteres.")
		}
		if !usernamePattern.MatchString(username) {
			v.Add("username", "El nombre de usuario solo puede contener letras, números y guiones bajos.")
		}
	}
	if required(v, "email", in.Email, "El correo electrónico es obligatorio.") && !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		v.Add("email", msgInvalidEmail)
	}
	if required(v, "password", in.Password, "La contraseña es obligatoria.") && len(in.Password) < 6 {
		v.Add("password", "La contraseña debe tener al menos 6 caracteres.")
	}
	if required(v, "confirm_password", in.ConfirmPassword, "Por favor, confirma tu contraseña.") && in.ConfirmPassword != in.Password {
		v.Add("confirm_password", "Las contraseñas deben coincidir.")
	}
	return v.OrNil()
}
