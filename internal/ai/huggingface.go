package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const DefaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2"

// HuggingFaceClient calls the HuggingFace Inference API text-generation task.
type HuggingFaceClient struct {
	config     ProviderConfig
	httpClient *http.Client
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	DoSample    bool    `json:"do_sample"`
	TopP        float64 `json:"top_p"`
}

type huggingFaceGeneration struct {
	GeneratedText *string `json:"generated_text"`
}

var huggingFaceGenerationParameters = huggingFaceParameters{
	MaxLength:   1000,
	Temperature: 0.8,
	DoSample:    true,
	TopP:        0.9,
}

// NewHuggingFaceClient создает клиент HuggingFace. Пустой endpoint заменяется адресом по умолчанию.
func NewHuggingFaceClient(config ProviderConfig, httpClient *http.Client) *HuggingFaceClient {
	if strings.TrimSpace(config.Endpoint) == "" {
		config.Endpoint = DefaultHuggingFaceEndpoint
	}
	return &HuggingFaceClient{config: config, httpClient: newHTTPClient(httpClient)}
}

func (c *HuggingFaceClient) Configured() bool {
	return c.config.Configured()
}

func (c *HuggingFaceClient) IsFree() bool {
	return c.config.IsFree
}

// Generate отправляет промпт в HuggingFace и возвращает сгенерированный текст без эха промпта.
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", missingCredential(ProviderHuggingFace)
	}

	headers := map[string]string{"Authorization": "Bearer " + strings.TrimSpace(c.config.APIKey)}
	request := huggingFaceRequest{Inputs: prompt, Parameters: huggingFaceGenerationParameters}

	body, err := postJSON(ctx, c.httpClient, ProviderHuggingFace, c.config.Endpoint, headers, request)
	if err != nil {
		return "", err
	}

	var parsed []huggingFaceGeneration
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ProviderError{Provider: ProviderHuggingFace, StatusCode: http.StatusOK, Message: "decode response", Err: err}
	}

	if len(parsed) == 0 || parsed[0].GeneratedText == nil {
		return "", malformedResponse(ProviderHuggingFace, http.StatusOK, "response missing generated_text")
	}

	return stripEcho(*parsed[0].GeneratedText, prompt), nil
}

// stripEcho removes the prompt when the model repeats it before its answer.
// Text that does not start with the prompt is returned trimmed but otherwise untouched.
func stripEcho(generated, prompt string) string {
	return strings.TrimSpace(strings.TrimPrefix(generated, prompt))
}
