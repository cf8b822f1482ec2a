package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// GeminiClient calls the Google Generative Language API (Gemini).
type GeminiClient struct {
	config     ProviderConfig
	httpClient *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiConfig    `json:"generationConfig"`
	SafetySettings   []geminiSafety  `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

type geminiSafety struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var geminiGeneration = geminiConfig{
	Temperature:     0.8,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 2048,
	CandidateCount:  1,
}

var geminiSafetySettings = []geminiSafety{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// NewGeminiClient создает клиент Gemini. Пустой endpoint заменяется адресом по умолчанию.
func NewGeminiClient(config ProviderConfig, httpClient *http.Client) *GeminiClient {
	if strings.TrimSpace(config.Endpoint) == "" {
		config.Endpoint = DefaultGeminiEndpoint
	}
	return &GeminiClient{config: config, httpClient: newHTTPClient(httpClient)}
}

func (c *GeminiClient) Configured() bool {
	return c.config.Configured()
}

func (c *GeminiClient) IsFree() bool {
	return c.config.IsFree
}

// Generate отправляет промпт в Gemini и возвращает текст первого кандидата.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", missingCredential(ProviderGemini)
	}

	endpoint, err := url.Parse(c.config.Endpoint)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Message: "invalid endpoint", Err: err}
	}
	query := endpoint.Query()
	query.Set("key", strings.TrimSpace(c.config.APIKey))
	endpoint.RawQuery = query.Encode()

	request := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGeneration,
		SafetySettings:   geminiSafetySettings,
	}

	body, err := postJSON(ctx, c.httpClient, ProviderGemini, endpoint.String(), nil, request)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ProviderError{Provider: ProviderGemini, StatusCode: http.StatusOK, Message: "decode response", Err: err}
	}

	if len(parsed.Candidates) == 0 {
		return "", malformedResponse(ProviderGemini, http.StatusOK, "response missing candidates")
	}

	content := parsed.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == nil {
		return "", malformedResponse(ProviderGemini, http.StatusOK, "response missing content")
	}

	return *content.Parts[0].Text, nil
}
