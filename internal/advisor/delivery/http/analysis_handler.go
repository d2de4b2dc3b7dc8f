package http

import (
	"net/http"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/service"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler serves the stock screeners and the stored analysis history.
type AnalysisHandler struct {
	screenerService    service.ScreenerService
	analysisLogService service.AnalysisLogService
	logger             *logger.Logger
}

func NewAnalysisHandler(screenerService service.ScreenerService, analysisLogService service.AnalysisLogService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		screenerService:    screenerService,
		analysisLogService: analysisLogService,
		logger:             logger,
	}
}

func (h *AnalysisHandler) RegisterRoutes(api *echo.Group, auth echo.MiddlewareFunc) {
	analysis := api.Group("/analysis", auth)
	analysis.POST("/swing-trades", h.SwingTrades)
	analysis.POST("/multibaggers", h.Multibaggers)

	api.GET("/analyses", h.ListAnalyses, auth)
}

func (h *AnalysisHandler) SwingTrades(c echo.Context) error {
	var req dto.ScreenerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	trades, err := h.screenerService.SwingTrades(c.Request().Context(), req.MarketCap)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate swing trades")
	}
	return c.JSON(http.StatusOK, trades)
}

func (h *AnalysisHandler) Multibaggers(c echo.Context) error {
	var req dto.ScreenerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	picks, err := h.screenerService.Multibaggers(c.Request().Context(), req.MarketCap)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate multibaggers")
	}
	return c.JSON(http.StatusOK, picks)
}

func (h *AnalysisHandler) ListAnalyses(c echo.Context) error {
	logs, err := h.analysisLogService.ListRecent(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get analyses")
	}
	return c.JSON(http.StatusOK, logs)
}
