package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// SessionCookie cookie HttpOnly con el JWT para navegadores (la fija POST /login).
const SessionCookie = "access_token"

// AuthMiddleware valida el JWT (Bearer Token o cookie de sesión) y extrae los claims a c.Locals.
// Las páginas pedidas desde un navegador sin sesión se redirigen a /login.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, fromHeader, err := extractToken(c)
		if err != nil {
			return unauthenticated(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		if tokenString == "" {
			if fromHeader {
				return unauthenticated(c, "MISSING_TOKEN", "token vacío")
			}
			return unauthenticated(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthenticated(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// OptionalAuth carga los claims si hay un token válido y nunca corta la petición.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, _, err := extractToken(c)
		if err != nil || tokenString == "" {
			return c.Next()
		}
		if claims, err := jwt.Parse(jwtSecret, tokenString); err == nil {
			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalUsername, claims.Username)
			c.Locals(LocalRole, claims.Role)
		}
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe ir después de AuthMiddleware.
// Token sin rol → 401 MISSING_ROLE; rol no permitido → 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: msgForbidden})
	}
}

// extractToken prioriza el header Authorization; si no viene, usa la cookie de sesión.
func extractToken(c *fiber.Ctx) (token string, fromHeader bool, err error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return strings.TrimSpace(c.Cookies(SessionCookie)), false, nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, fiber.ErrUnauthorized
	}
	return strings.TrimSpace(parts[1]), true, nil
}

func unauthenticated(c *fiber.Ctx, code, msg string) error {
	if wantsPage(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetUsername devuelve el nombre de usuario del token.
func GetUsername(c *fiber.Ctx) string {
	return localString(c, LocalUsername)
}

// GetRole devuelve el rol del token ("admin" | "customer").
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// IsAdmin indica si el usuario autenticado es administrador.
func IsAdmin(c *fiber.Ctx) bool {
	return GetRole(c) == entity.RoleAdmin
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
