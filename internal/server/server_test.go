package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/finance-advisor/internal/ai"
	"example.com/finance-advisor/internal/config"
	"example.com/finance-advisor/internal/handlers"
)

func testConfig(gemini ai.ProviderConfig) config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Host:               "127.0.0.1",
			Port:               8080,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
		AI: config.AIConfig{
			Gemini:           gemini,
			HuggingFace:      ai.ProviderConfig{IsFree: true},
			OpenAI:           ai.ProviderConfig{},
			RequestTimeout:   time.Second,
			MaxMessageLength: 2000,
		},
	}
}

// TestAdviceThroughGemini проверяет полный путь запроса через HTTP до провайдера.
func TestAdviceThroughGemini(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "gem-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Keep saving."}]}}]}`))
	}))
	t.Cleanup(upstream.Close)

	e := New(testConfig(ai.ProviderConfig{APIKey: "gem-key", Endpoint: upstream.URL, IsFree: true}), nil, upstream.Client())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/advice", strings.NewReader(`{"message":"How am I doing?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var response handlers.AdviceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "gemini", response.Provider)
	require.Equal(t, "ai", response.Source)
	require.Equal(t, "Keep saving.", response.Advice)
}

// TestAdviceUpstreamFailure проверяет fallback при ошибке провайдера.
func TestAdviceUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"internal"}}`))
	}))
	t.Cleanup(upstream.Close)

	e := New(testConfig(ai.ProviderConfig{APIKey: "gem-key", Endpoint: upstream.URL}), nil, upstream.Client())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/advice", strings.NewReader(`{"message":"any debt tips?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response handlers.AdviceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "fallback", response.Source)
	require.Equal(t, "provider_error", response.FallbackReason)
	require.Contains(t, response.Advice, "debt")
}

// TestCORSPreflight проверяет CORS для разрешенного origin.
func TestCORSPreflight(t *testing.T) {
	e := New(testConfig(ai.ProviderConfig{}), nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ai/advice", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestValidatorUsesJSONNames проверяет имена полей в ошибках валидации.
func TestValidatorUsesJSONNames(t *testing.T) {
	err := NewValidator().Validate(&handlers.AdviceRequest{Provider: "claude"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "'message'")
	require.Contains(t, err.Error(), "'provider'")
}

// TestNewHTTPServer проверяет адрес и таймауты сервера.
func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer(config.ServerConfig{Host: "0.0.0.0", Port: 9090, ReadTimeout: time.Second}, http.NewServeMux())
	require.Equal(t, "0.0.0.0:9090", srv.Addr)
	require.Equal(t, time.Second, srv.ReadTimeout)
}
