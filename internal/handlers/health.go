package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/finance-advisor/internal/ai"
)

const (
	modeAI           = "ai"
	modeFallbackOnly = "fallback_only"
)

type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

// Health возвращает статус сервиса и режим выдачи советов.
func (h *AdviceHandler) Health(c echo.Context) error {
	mode := modeAI
	if _, err := h.Service.Select(ai.ProviderAuto); err != nil {
		mode = modeFallbackOnly
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Mode: mode})
}
