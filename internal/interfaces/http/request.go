package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/pkg/logger"
	"github.com/rs/zerolog"
)

const localLogger = "logger"

// RequestLogging crea un sublogger por petición (request_id, method, path), lo deja en
// c.Locals y en el contexto de usuario, y registra el resultado al terminar.
func RequestLogging(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		zl := base.With().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		c.Locals(localLogger, &zl)
		c.SetUserContext(logger.WithContext(c.UserContext(), zl))

		err := c.Next()

		ev := zl.Info()
		if err != nil {
			ev = zl.Warn().Err(err)
		}
		ev.Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("petición atendida")
		return err
	}
}

// RequestLogger devuelve el logger de la petición (o el global si no hay middleware).
func RequestLogger(c *fiber.Ctx) *zerolog.Logger {
	if zl, ok := c.Locals(localLogger).(*zerolog.Logger); ok {
		return zl
	}
	return logger.FromContext(c.UserContext())
}

// isAJAX detecta peticiones XMLHttpRequest; siempre reciben JSON.
func isAJAX(c *fiber.Ctx) bool {
	return c.Get(fiber.HeaderXRequestedWith) == "XMLHttpRequest"
}

// isFormPost indica un envío de formulario HTML (urlencoded o multipart).
func isFormPost(c *fiber.Ctx) bool {
	ct := c.Get(fiber.HeaderContentType)
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) || strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// wantsPage indica una navegación GET de un navegador (no AJAX, Accept text/html).
func wantsPage(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodGet && !isAJAX(c) &&
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}

// formDone responde un envío correcto: redirección 303 para formularios HTML,
// JSON con status para AJAX y clientes de API.
func formDone(c *fiber.Ctx, status int, redirect string, body any) error {
	if isFormPost(c) && !isAJAX(c) {
		return c.Redirect(redirect, fiber.StatusSeeOther)
	}
	return c.Status(status).JSON(body)
}

// queryFlag interpreta checkboxes de query string ("on", "true", "1").
func queryFlag(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func pageParam(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return 1
	}
	return page
}
