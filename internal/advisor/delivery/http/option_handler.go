package http

import (
	"fmt"
	"net/http"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/service"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OptionHandler handles HTTP requests for held options and options advice.
type OptionHandler struct {
	optionService   service.OptionService
	hedgingService  service.HedgingService
	screenerService service.ScreenerService
	logger          *logger.Logger
}

func NewOptionHandler(optionService service.OptionService, hedgingService service.HedgingService, screenerService service.ScreenerService, logger *logger.Logger) *OptionHandler {
	return &OptionHandler{
		optionService:   optionService,
		hedgingService:  hedgingService,
		screenerService: screenerService,
		logger:          logger,
	}
}

func (h *OptionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListOptions)
	g.POST("", h.CreateOption)
	g.GET("/recommendations", h.Recommendations)
	g.POST("/analyze-hedging", h.AnalyzeHedging)
	g.PATCH("/:id", h.UpdateOption)
	g.DELETE("/:id", h.DeleteOption)
	g.POST("/:id/analyze", h.AnalyzeOption)
}

func (h *OptionHandler) ListOptions(c echo.Context) error {
	options, err := h.optionService.List(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get options")
	}
	return c.JSON(http.StatusOK, options)
}

func (h *OptionHandler) CreateOption(c echo.Context) error {
	var req dto.CreateOptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	option, err := h.optionService.Create(c.Request().Context(), UserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create option")
	}
	return c.JSON(http.StatusCreated, option)
}

func (h *OptionHandler) UpdateOption(c echo.Context) error {
	var req dto.UpdateOptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	option, err := h.optionService.Update(c.Request().Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update option")
	}
	return c.JSON(http.StatusOK, option)
}

func (h *OptionHandler) DeleteOption(c echo.Context) error {
	if err := h.optionService.Delete(c.Request().Context(), UserID(c), c.Param("id")); err != nil {
		return respondError(c, h.logger, err, "Failed to delete option")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OptionHandler) AnalyzeHedging(c echo.Context) error {
	analyses, err := h.hedgingService.AnalyzeHedging(c.Request().Context(), UserID(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to analyze hedging")
	}
	return c.JSON(http.StatusOK, analyses)
}

func (h *OptionHandler) AnalyzeOption(c echo.Context) error {
	advice, err := h.hedgingService.AnalyzeOption(c.Request().Context(), UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to analyze option")
	}
	return c.JSON(http.StatusOK, advice)
}

func (h *OptionHandler) Recommendations(c echo.Context) error {
	var query dto.OptionsRecommendationsQuery
	if err := bindAndValidate(c, &query); err != nil {
		return respondError(c, h.logger, err, "Invalid request")
	}

	params := dto.OptionsRecommendationParams{
		Budget:             query.Budget,
		StrategyPreference: entity.ParseStrategyPreference(query.StrategyPreference),
	}
	if query.RiskTolerance != "" {
		risk, err := entity.ParseRiskTolerance(query.RiskTolerance)
		if err != nil {
			return respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrInvalidInput, err), "Invalid request")
		}
		params.RiskTolerance = risk
	}

	recommendations, err := h.screenerService.OptionsRecommendations(c.Request().Context(), params)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate options recommendations")
	}
	return c.JSON(http.StatusOK, recommendations)
}
