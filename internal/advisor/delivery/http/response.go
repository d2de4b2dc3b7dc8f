package http

import (
	"errors"
	"fmt"
	"net/http"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/service"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// respondError maps service errors onto HTTP statuses. Unexpected errors are logged and hidden.
func respondError(c echo.Context, log *logger.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, service.ErrCycleInProgress):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Analysis already in progress"})
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	log.ErrorContext(c.Request().Context(), fallback,
		logger.ErrorField(err),
		logger.StringField("path", c.Path()),
		logger.StringField("user_id", UserID(c)))
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid request payload", service.ErrInvalidInput)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return nil
}
