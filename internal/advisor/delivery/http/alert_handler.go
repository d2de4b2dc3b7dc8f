package http

import (
	"net/http"

	"golang-portfolio-advisor/internal/advisor/service"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertHandler handles HTTP requests for price alerts.
type AlertHandler struct {
	alertService service.AlertService
	logger       *logger.Logger
}

func NewAlertHandler(alertService service.AlertService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// RegisterRoutes registers the alert routes. Marking as read is the only mutation.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListAlerts)
	g.PATCH("/:id/read", h.MarkRead)
}

func (h *AlertHandler) ListAlerts(c echo.Context) error {
	alerts, err := h.alertService.ListAlerts(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get alerts")
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) MarkRead(c echo.Context) error {
	alert, err := h.alertService.MarkRead(c.Request().Context(), UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update alert")
	}
	return c.JSON(http.StatusOK, alert)
}
