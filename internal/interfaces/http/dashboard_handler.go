package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Suministros-api/internal/application/analytics"
)

// DashboardHandler maneja los dashboards por rol y las estadísticas de administración.
type DashboardHandler struct {
	dashboard  *appanalytics.DashboardUseCase
	statistics *appanalytics.StatisticsUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *appanalytics.DashboardUseCase, statistics *appanalytics.StatisticsUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, statistics: statistics}
}

// Dashboard godoc
// @Summary      Dashboard según el rol
// @Description  Administrador: ventas, compras y beneficio de los últimos 30 días y rankings.
// @Description  Cliente: su gasto diario, sus productos más comprados y sus compras recientes.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	return h.refresh(c)
}

// RefreshDashboard godoc
// @Summary      Datos del dashboard para refresco en cliente
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/refresh_dashboard_data [get]
func (h *DashboardHandler) RefreshDashboard(c *fiber.Ctx) error {
	return h.refresh(c)
}

func (h *DashboardHandler) refresh(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if IsAdmin(c) {
		out, err := h.dashboard.Admin(ctx)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(out)
	}
	out, err := h.dashboard.Customer(ctx, GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Estadísticas de inventario y ventas
// @Description  Cada sección falla de forma aislada; las fallidas se listan en failed_sections.
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Param        page  query  int  false  "Página del historial de pedidos"  default(1)
// @Success      200  {object}  dto.StatisticsResponse
// @Router       /statistics [get]
func (h *DashboardHandler) Statistics(c *fiber.Ctx) error {
	out := h.statistics.Statistics(c.UserContext(), pageParam(c))
	if len(out.FailedSections) > 0 {
		RequestLogger(c).Warn().Strs("sections", out.FailedSections).Msg("estadísticas parciales")
	}
	return c.JSON(out)
}

// RefreshStatistics godoc
// @Summary      Recalcular estadísticas
// @Description  Devuelve los agregados y poda el historial de pedidos más allá de los 50 más recientes.
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatisticsResponse
// @Router       /api/refresh_statistics [get]
func (h *DashboardHandler) RefreshStatistics(c *fiber.Ctx) error {
	out := h.statistics.Refresh(c.UserContext())
	if len(out.FailedSections) > 0 {
		RequestLogger(c).Warn().Strs("sections", out.FailedSections).Msg("estadísticas parciales")
	}
	return c.JSON(out)
}

// ClientPurchaseHistory godoc
// @Summary      Historial de compras del cliente
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Param        page  query  int  false  "Página"  default(1)
// @Success      200  {object}  dto.PurchaseHistoryResponse
// @Router       /api/client_purchase_history [get]
func (h *DashboardHandler) ClientPurchaseHistory(c *fiber.Ctx) error {
	out, err := h.statistics.ClientPurchaseHistory(c.UserContext(), GetUserID(c), pageParam(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// SalesByDate godoc
// @Summary      Ventas de un día
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Param        date  path   string  true   "Fecha YYYY-MM-DD"
// @Param        page  query  int     false  "Página"  default(1)
// @Success      200  {object}  dto.SalesByDateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales_by_date/{date} [get]
func (h *DashboardHandler) SalesByDate(c *fiber.Ctx) error {
	out, err := h.statistics.SalesByDate(c.UserContext(), c.Params("date"), pageParam(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// OrderHistory godoc
// @Summary      Historial de pedidos a proveedor
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Param        page  query  int  false  "Página"  default(1)
// @Success      200  {object}  dto.OrderHistoryResponse
// @Router       /api/order_history [get]
func (h *DashboardHandler) OrderHistory(c *fiber.Ctx) error {
	out, err := h.statistics.OrderHistory(c.UserContext(), pageParam(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
