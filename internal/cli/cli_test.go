package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()

	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))
	t.Setenv("ENV_FILE", envFile)

	for _, key := range []string{"GEMINI_API_KEY", "HUGGINGFACE_API_KEY", "OPENAI_API_KEY", "GEMINI_ENDPOINT", "HUGGINGFACE_ENDPOINT", "OPENAI_ENDPOINT", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func run(t *testing.T, httpClient *http.Client, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(httpClient)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeContext(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "context.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestAskUsesProvider проверяет вывод ответа настроенного провайдера.
func TestAskUsesProvider(t *testing.T) {
	isolateEnv(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Automate your savings."}}]}`))
	}))
	t.Cleanup(upstream.Close)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_ENDPOINT", upstream.URL)

	stdout, stderr, err := run(t, upstream.Client(), "ask", "How", "do", "I", "save?")
	require.NoError(t, err)
	require.Equal(t, "Automate your savings.\n", stdout)
	require.Contains(t, stderr, "provider: openai")
}

// TestAskFallsBack проверяет локальный совет при отсутствии провайдеров.
func TestAskFallsBack(t *testing.T) {
	isolateEnv(t)
	contextPath := writeContext(t, `{"monthlyIncome":5000,"totalExpenses":3000,"transactionCount":30,"savingsRate":10}`)

	stdout, stderr, err := run(t, nil, "ask", "help with my budget", "--context", contextPath)
	require.NoError(t, err)
	require.Contains(t, stdout, "Monthly income: $5,000")
	require.Contains(t, stderr, "falling back to local advice")
}

// TestAskNoFallback проверяет возврат ошибки при --no-fallback.
func TestAskNoFallback(t *testing.T) {
	isolateEnv(t)

	_, _, err := run(t, nil, "ask", "hello", "--no-fallback")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no ai provider configured")

	_, _, err = run(t, nil, "ask", "hello", "--provider", "claude")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported ai provider")
}

// TestFallbackCommand проверяет вывод шаблона без сетевых вызовов.
func TestFallbackCommand(t *testing.T) {
	isolateEnv(t)
	contextPath := writeContext(t, `{"categorySpending":{"Rent":1800,"Dining":450}}`)

	stdout, _, err := run(t, nil, "fallback", "reduce", "expenses", "-c", contextPath)
	require.NoError(t, err)
	require.Contains(t, stdout, "Rent at $1,800")

	_, _, err = run(t, nil, "fallback", "hi", "-c", filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "read context file")
}

// TestProvidersCommand проверяет вывод состояния провайдеров и выбора auto.
func TestProvidersCommand(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, nil, "providers")
	require.NoError(t, err)
	require.Contains(t, stdout, "auto: none")

	t.Setenv("HUGGINGFACE_API_KEY", "hf-key")
	stdout, _, err = run(t, nil, "providers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "gemini"))
	require.Contains(t, lines[1], "configured=true")
	require.Equal(t, "auto: huggingface", lines[3])
}
