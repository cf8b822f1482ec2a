package server

import (
	"github.com/labstack/echo/v4"

	"example.com/finance-advisor/internal/handlers"
)

func registerRoutes(e *echo.Echo, adviceHandler *handlers.AdviceHandler) {
	e.GET("/health", adviceHandler.Health)

	api := e.Group("/api/v1")

	aiGroup := api.Group("/ai")
	aiGroup.GET("/providers", adviceHandler.Providers)
	aiGroup.POST("/advice", adviceHandler.Advise)
	aiGroup.POST("/advice/fallback", adviceHandler.Fallback)
}
