package http

import (
	"net/http"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/service"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PositionHandler handles HTTP requests for stock positions and portfolio runs.
type PositionHandler struct {
	positionService  service.PositionService
	portfolioService service.PortfolioService
	schedulerService service.SchedulerService
	logger           *logger.Logger
}

func NewPositionHandler(positionService service.PositionService, portfolioService service.PortfolioService, schedulerService service.SchedulerService, logger *logger.Logger) *PositionHandler {
	return &PositionHandler{
		positionService:  positionService,
		portfolioService: portfolioService,
		schedulerService: schedulerService,
		logger:           logger,
	}
}

// RegisterRoutes registers the stock routes. The price lookup is public.
func (h *PositionHandler) RegisterRoutes(api *echo.Group, auth echo.MiddlewareFunc) {
	stocks := api.Group("/stocks")
	stocks.GET("/price/:symbol", h.GetPrice)
	stocks.GET("", h.ListPositions, auth)
	stocks.POST("", h.CreatePosition, auth)
	stocks.PATCH("/:id", h.UpdatePosition, auth)
	stocks.DELETE("/:id", h.DeletePosition, auth)

	portfolio := api.Group("/portfolio", auth)
	portfolio.POST("/refresh", h.RefreshPrices)
	portfolio.POST("/analyze", h.Analyze)
}

func (h *PositionHandler) ListPositions(c echo.Context) error {
	positions, err := h.positionService.List(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get stocks")
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *PositionHandler) CreatePosition(c echo.Context) error {
	var req dto.CreatePositionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	position, err := h.positionService.Create(c.Request().Context(), UserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create stock")
	}
	return c.JSON(http.StatusCreated, position)
}

func (h *PositionHandler) UpdatePosition(c echo.Context) error {
	var req dto.UpdatePositionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	position, err := h.positionService.Update(c.Request().Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update stock")
	}
	return c.JSON(http.StatusOK, position)
}

func (h *PositionHandler) DeletePosition(c echo.Context) error {
	if err := h.positionService.Delete(c.Request().Context(), UserID(c), c.Param("id")); err != nil {
		return respondError(c, h.logger, err, "Failed to delete stock")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PositionHandler) GetPrice(c echo.Context) error {
	quote, err := h.positionService.Price(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get price")
	}
	return c.JSON(http.StatusOK, quote)
}

func (h *PositionHandler) RefreshPrices(c echo.Context) error {
	positions, err := h.portfolioService.RefreshPrices(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to refresh prices")
	}
	return c.JSON(http.StatusOK, positions)
}

// Analyze runs the full refresh and analysis for the caller through the shared cycle guard.
func (h *PositionHandler) Analyze(c echo.Context) error {
	result, err := h.schedulerService.RunForUserNow(c.Request().Context(), UserID(c))
	if err != nil && result == nil {
		return respondError(c, h.logger, err, "Failed to analyze portfolio")
	}
	if err != nil {
		h.logger.WarnContext(c.Request().Context(), "Portfolio analysis completed with errors",
			logger.StringField("user_id", UserID(c)), logger.ErrorField(err))
	}
	if len(result.Positions) == 0 {
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "No stocks to analyze"})
	}
	return c.JSON(http.StatusOK, result)
}
