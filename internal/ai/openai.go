package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const (
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	openAIModel           = "gpt-3.5-turbo"
	openAISystemPrompt    = "You are a helpful personal finance advisor. Give practical, specific and encouraging advice based on the user's real numbers."
)

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	config     ProviderConfig
	httpClient *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient создает клиент OpenAI. Пустой endpoint заменяется адресом по умолчанию.
func NewOpenAIClient(config ProviderConfig, httpClient *http.Client) *OpenAIClient {
	if strings.TrimSpace(config.Endpoint) == "" {
		config.Endpoint = DefaultOpenAIEndpoint
	}
	return &OpenAIClient{config: config, httpClient: newHTTPClient(httpClient)}
}

func (c *OpenAIClient) Configured() bool {
	return c.config.Configured()
}

func (c *OpenAIClient) IsFree() bool {
	return c.config.IsFree
}

// Generate отправляет промпт в OpenAI и возвращает текст первого варианта ответа.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", missingCredential(ProviderOpenAI)
	}

	headers := map[string]string{"Authorization": "Bearer " + strings.TrimSpace(c.config.APIKey)}
	request := openAIChatRequest{
		Model: openAIModel,
		Messages: []openAIMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	body, err := postJSON(ctx, c.httpClient, ProviderOpenAI, c.config.Endpoint, headers, request)
	if err != nil {
		return "", err
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, StatusCode: http.StatusOK, Message: "decode response", Err: err}
	}

	if len(parsed.Choices) == 0 {
		return "", malformedResponse(ProviderOpenAI, http.StatusOK, "response missing choices")
	}

	content := parsed.Choices[0].Message.Content
	if content == nil {
		return "", malformedResponse(ProviderOpenAI, http.StatusOK, "response missing content")
	}

	return *content, nil
}
