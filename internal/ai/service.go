package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Config carries one ProviderConfig per supported provider.
type Config struct {
	Gemini      ProviderConfig
	HuggingFace ProviderConfig
	OpenAI      ProviderConfig
}

// Clients binds every provider to its gateway. A nil client counts as unconfigured.
type Clients struct {
	Gemini      Client
	HuggingFace Client
	OpenAI      Client
}

type ProviderStatus struct {
	Provider   Provider
	Configured bool
	IsFree     bool
}

type Service struct {
	clients Clients
	logger  *slog.Logger
}

// NewClients создает HTTP-клиенты всех провайдеров по конфигурации.
func NewClients(cfg Config, httpClient *http.Client) Clients {
	httpClient = newHTTPClient(httpClient)
	return Clients{
		Gemini:      NewGeminiClient(cfg.Gemini, httpClient),
		HuggingFace: NewHuggingFaceClient(cfg.HuggingFace, httpClient),
		OpenAI:      NewOpenAIClient(cfg.OpenAI, httpClient),
	}
}

// NewService создает сервис выдачи финансовых советов.
func NewService(clients Clients, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{clients: clients, logger: logger}
}

// Select определяет провайдера: явный выбор возвращается как есть, auto берет первого с ключом.
func (s *Service) Select(requested Provider) (Provider, error) {
	switch requested {
	case ProviderGemini, ProviderHuggingFace, ProviderOpenAI:
		return requested, nil
	case ProviderAuto, "":
		for _, provider := range autoPrecedence {
			if configured(s.client(provider)) {
				return provider, nil
			}
		}
		return "", ErrNoProviderConfigured
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, requested)
	}
}

// GetFinancialAdvice выбирает провайдера, собирает промпт и выполняет один запрос.
// Ошибки провайдера возвращаются вызывающему без повторов и без локального fallback.
func (s *Service) GetFinancialAdvice(ctx context.Context, req AdviceRequest) (Advice, error) {
	provider, err := s.Select(req.Provider)
	if err != nil {
		return Advice{}, err
	}

	client := s.client(provider)
	if client == nil {
		return Advice{}, missingCredential(provider)
	}

	s.logger.DebugContext(ctx, "ai provider resolved",
		slog.String("requested", string(req.Provider)),
		slog.String("provider", string(provider)),
	)

	text, err := client.Generate(ctx, ComposePrompt(req.Message, req.Context))
	if err != nil {
		attrs := []any{slog.String("provider", string(provider)), slog.String("error", err.Error())}
		var providerErr *ProviderError
		if errors.As(err, &providerErr) && providerErr.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", providerErr.StatusCode))
		}
		s.logger.WarnContext(ctx, "ai provider request failed", attrs...)
		return Advice{}, err
	}

	return Advice{Provider: provider, Text: text}, nil
}

// Providers возвращает состояние всех провайдеров в порядке приоритета auto.
func (s *Service) Providers() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(autoPrecedence))
	for _, provider := range autoPrecedence {
		client := s.client(provider)
		out = append(out, ProviderStatus{
			Provider:   provider,
			Configured: configured(client),
			IsFree:     client != nil && client.IsFree(),
		})
	}
	return out
}

func (s *Service) client(provider Provider) Client {
	switch provider {
	case ProviderGemini:
		return s.clients.Gemini
	case ProviderHuggingFace:
		return s.clients.HuggingFace
	case ProviderOpenAI:
		return s.clients.OpenAI
	default:
		return nil
	}
}

func configured(client Client) bool {
	return client != nil && client.Configured()
}
