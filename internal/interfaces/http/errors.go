package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

// Mensajes de error visibles para el usuario.
const (
	msgForbidden      = "No tienes permiso para realizar esta acción"
	msgAdminCart      = "Los administradores no pueden añadir productos al carrito"
	msgAdminCartEdit  = "Los administradores no pueden modificar el carrito"
	msgAdminCheckout  = "Los administradores no pueden realizar compras"
	msgNotFound       = "Recurso no encontrado"
	msgPageNotFound   = "Página no encontrada"
	msgBadCredentials = "Usuario o contraseña inválidos"
	msgInvalidBody    = "cuerpo inválido"
	msgInternal       = "Ha ocurrido un error inesperado. Por favor, inténtalo de nuevo."
)

// ErrorHandler manejador central de Fiber: páginas de error 403/404/500 y genérica.
// Con debug=true las respuestas 500 incluyen el error original.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		switch code {
		case fiber.StatusForbidden:
			return c.Status(code).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: msgForbidden})
		case fiber.StatusNotFound:
			return c.Status(code).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msgPageNotFound})
		case fiber.StatusInternalServerError:
			RequestLogger(c).Error().Err(err).Msg("error no controlado")
			msg := msgInternal
			if debug {
				msg = err.Error()
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msg})
		default:
			return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
	}
}

// handleError traduce los errores de dominio a respuestas HTTP.
// Los errores no reconocidos se devuelven tal cual para que los atienda ErrorHandler.
func handleError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FormErrorResponse{Success: false, Errors: verr.Fields})
	}
	var berr *domain.BusinessError
	if errors.As(err, &berr) {
		status := fiber.StatusConflict
		if errors.Is(berr, domain.ErrInvalidInput) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: "BUSINESS_RULE", Message: berr.Message})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCartLineNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msgNotFound})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: msgBadCredentials})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: msgForbidden})
	case errors.Is(err, domain.ErrDuplicateReference), errors.Is(err, domain.ErrDuplicateCIF),
		errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return err
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: msgInvalidBody})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: msg})
}
