package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

const msgRegistered = "Registro exitoso. Por favor, inicia sesión."

// AuthHandler maneja registro, login y logout.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	metrics      *Metrics
	cookieSecure bool
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, metrics *Metrics, cookieSecure bool) *AuthHandler {
	return &AuthHandler{uc: uc, metrics: metrics, cookieSecure: cookieSecure}
}

// Index redirige al dashboard con sesión y al login sin ella.
func (h *AuthHandler) Index(c *fiber.Ctx) error {
	if GetUserID(c) != "" {
		return c.Redirect("/dashboard")
	}
	return c.Redirect("/login")
}

// LoginPage devuelve el formulario de login; con sesión activa redirige al dashboard.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if GetUserID(c) != "" {
		return c.Redirect("/dashboard")
	}
	return c.JSON(fiber.Map{"form": "login", "fields": []string{"username", "password"}})
}

// RegisterPage devuelve el formulario de registro.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	if GetUserID(c) != "" {
		return c.Redirect("/dashboard")
	}
	return c.JSON(fiber.Map{"form": "register", "fields": []string{"username", "email", "password", "confirm_password"}})
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, email, password, confirm_password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	RequestLogger(c).Info().Str("user_id", user.ID).Msg("usuario registrado")
	if isAJAX(c) {
		return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Success: true, Message: msgRegistered, Redirect: "/login"})
	}
	return formDone(c, fiber.StatusCreated, "/login", user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el JWT y lo deja además en la cookie HttpOnly access_token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.metrics.authAttempt(false)
			RequestLogger(c).Info().Str("username", in.Username).Msg("login fallido")
		}
		return handleError(c, err)
	}
	h.metrics.authAttempt(true)
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    out.Token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	out.Redirect = "/dashboard"
	return formDone(c, fiber.StatusOK, out.Redirect, out)
}

// Logout elimina la cookie de sesión y redirige al login.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/login")
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.GetUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no encontrado"})
	}
	return c.JSON(user)
}
