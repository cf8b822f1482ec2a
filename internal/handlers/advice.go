package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/finance-advisor/internal/ai"
)

const (
	sourceAI       = "ai"
	sourceFallback = "fallback"

	reasonNoProvider    = "no_provider_configured"
	reasonProviderError = "provider_error"
)

type AdviceHandler struct {
	Service          *ai.Service
	Logger           *slog.Logger
	Timeout          time.Duration
	MaxMessageLength int
}

// NewAdviceHandler создает обработчик запросов финансовых советов.
func NewAdviceHandler(service *ai.Service, logger *slog.Logger, timeout time.Duration, maxMessageLength int) *AdviceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdviceHandler{
		Service:          service,
		Logger:           logger,
		Timeout:          timeout,
		MaxMessageLength: maxMessageLength,
	}
}

type AdviceRequest struct {
	Message  string              `json:"message" validate:"required"`
	Context  ai.FinancialContext `json:"context"`
	Provider string              `json:"provider" validate:"omitempty,oneof=auto gemini huggingface openai"`
	Fallback *bool               `json:"fallback"`
}

type FallbackRequest struct {
	Message string              `json:"message" validate:"required"`
	Context ai.FinancialContext `json:"context"`
}

type AdviceResponse struct {
	ID             string `json:"id"`
	Provider       string `json:"provider,omitempty"`
	Source         string `json:"source"`
	Advice         string `json:"advice"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

type ProviderResponse struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	IsFree     bool   `json:"is_free"`
}

type ProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	Auto      *string            `json:"auto"`
}

// Advise запрашивает совет у AI-провайдера и при сбое отдает локальный шаблон.
func (h *AdviceHandler) Advise(c echo.Context) error {
	var req AdviceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if err := h.checkMessage(req.Message); err != nil {
		return badRequest(c, err.Error())
	}

	provider, err := ai.ParseProvider(req.Provider)
	if err != nil {
		return badRequest(c, "unsupported provider")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	advice, err := h.Service.GetFinancialAdvice(ctx, ai.AdviceRequest{
		Message:  req.Message,
		Context:  req.Context,
		Provider: provider,
	})
	if err == nil {
		h.Logger.InfoContext(ctx, "ai advice generated", slog.String("provider", advice.Provider.String()))
		return c.JSON(http.StatusOK, AdviceResponse{
			ID:       uuid.NewString(),
			Provider: advice.Provider.String(),
			Source:   sourceAI,
			Advice:   advice.Text,
		})
	}

	if errors.Is(err, ai.ErrUnsupportedProvider) {
		return badRequest(c, "unsupported provider")
	}

	var providerErr *ai.ProviderError
	switch {
	case errors.Is(err, ai.ErrNoProviderConfigured):
		if !fallbackEnabled(req.Fallback) {
			return serviceUnavailable(c, "no ai provider configured")
		}
		h.Logger.WarnContext(ctx, "ai advice fallback used", slog.String("reason", reasonNoProvider))
		return c.JSON(http.StatusOK, fallbackResponse(req.Message, req.Context, "", reasonNoProvider))
	case errors.As(err, &providerErr):
		if !fallbackEnabled(req.Fallback) {
			return badGateway(c, providerErr.Error())
		}
		h.Logger.WarnContext(ctx, "ai advice fallback used",
			slog.String("reason", reasonProviderError),
			slog.String("provider", providerErr.Provider.String()),
			slog.String("error", providerErr.Error()),
		)
		return c.JSON(http.StatusOK, fallbackResponse(req.Message, req.Context, providerErr.Provider.String(), reasonProviderError))
	default:
		h.Logger.ErrorContext(ctx, "ai advice failed", slog.String("error", err.Error()))
		return serverError(c)
	}
}

// Fallback возвращает совет по локальным шаблонам без обращения к провайдерам.
func (h *AdviceHandler) Fallback(c echo.Context) error {
	var req FallbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if err := h.checkMessage(req.Message); err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(http.StatusOK, fallbackResponse(req.Message, req.Context, "", ""))
}

// Providers возвращает состояние провайдеров и результат выбора auto.
func (h *AdviceHandler) Providers(c echo.Context) error {
	statuses := h.Service.Providers()
	response := ProvidersResponse{Providers: make([]ProviderResponse, 0, len(statuses))}
	for _, status := range statuses {
		response.Providers = append(response.Providers, ProviderResponse{
			Name:       status.Provider.String(),
			Configured: status.Configured,
			IsFree:     status.IsFree,
		})
	}

	if provider, err := h.Service.Select(ai.ProviderAuto); err == nil {
		name := provider.String()
		response.Auto = &name
	}

	return c.JSON(http.StatusOK, response)
}

func (h *AdviceHandler) checkMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message is required")
	}
	if h.MaxMessageLength > 0 && utf8.RuneCountInString(message) > h.MaxMessageLength {
		return fmt.Errorf("message must be at most %d characters", h.MaxMessageLength)
	}
	return nil
}

func fallbackEnabled(flag *bool) bool {
	return flag == nil || *flag
}

func fallbackResponse(message string, financial ai.FinancialContext, provider, reason string) AdviceResponse {
	return AdviceResponse{
		ID:             uuid.NewString(),
		Provider:       provider,
		Source:         sourceFallback,
		Advice:         ai.GenerateFallback(message, financial),
		FallbackReason: reason,
	}
}
