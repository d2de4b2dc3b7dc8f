package http

import (
	"golang-portfolio-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers groups every route owner of the advisor API.
type Handlers struct {
	Position *PositionHandler
	Alert    *AlertHandler
	Option   *OptionHandler
	Analysis *AnalysisHandler
}

// NewServer builds the echo instance serving /api/v1.
func NewServer(handlers Handlers, jwtSecret string, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug("HTTP request",
				logger.StringField("method", v.Method),
				logger.StringField("uri", v.URI),
				logger.IntField("status", v.Status),
				logger.DurationField("latency", v.Latency))
			return nil
		},
	}))

	auth := JWTAuth(jwtSecret)
	apiV1 := e.Group("/api/v1")

	handlers.Position.RegisterRoutes(apiV1, auth)
	handlers.Alert.RegisterRoutes(apiV1.Group("/alerts", auth))
	handlers.Option.RegisterRoutes(apiV1.Group("/options", auth))
	handlers.Analysis.RegisterRoutes(apiV1, auth)

	return e
}
