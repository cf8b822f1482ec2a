package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client generates text for a prompt using one remote provider.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
	IsFree() bool
}

func newHTTPClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{}
}

// postJSON отправляет JSON-запрос провайдеру и возвращает тело успешного ответа.
func postJSON(ctx context.Context, client *http.Client, provider Provider, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "encode request", Err: err}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "build request", Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, transportError(provider, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &ProviderError{Provider: provider, StatusCode: response.StatusCode, Message: "read response", Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &ProviderError{Provider: provider, StatusCode: response.StatusCode, Message: apiErrorMessage(response.StatusCode, raw)}
	}

	return raw, nil
}

// transportError drops the request URL, which may carry an API key.
func transportError(provider Provider, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &ProviderError{Provider: provider, Message: err.Error(), Err: err}
}

// apiErrorMessage understands both {"error":{"message":...}} and {"error":"..."} bodies.
func apiErrorMessage(status int, body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}

		var plain string
		if err := json.Unmarshal(envelope.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}

	if message := strings.TrimSpace(string(body)); message != "" {
		return message
	}
	return http.StatusText(status)
}
