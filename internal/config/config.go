package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"example.com/finance-advisor/internal/ai"
)

type Config struct {
	Env      string
	LogLevel slog.Level
	Server   ServerConfig
	AI       AIConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
}

type AIConfig struct {
	Gemini           ai.ProviderConfig
	HuggingFace      ai.ProviderConfig
	OpenAI           ai.ProviderConfig
	RequestTimeout   time.Duration
	MaxMessageLength int
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	logLevel, err := parseLevelEnv("LOG_LEVEL", slog.LevelInfo)
	if err != nil {
		return cfg, err
	}
	cfg.LogLevel = logLevel

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:               getEnv("SERVER_HOST", "0.0.0.0"),
		Port:               serverPort,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		IdleTimeout:        idleTimeout,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS"),
	}

	requestTimeout, err := parseDurationEnv("AI_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return cfg, err
	}

	maxMessageLength, err := parseIntEnv("AI_MAX_MESSAGE_LENGTH", 2000)
	if err != nil {
		return cfg, err
	}

	cfg.AI = AIConfig{
		Gemini: ai.ProviderConfig{
			APIKey:   strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
			Endpoint: getEnv("GEMINI_ENDPOINT", ai.DefaultGeminiEndpoint),
			IsFree:   true,
		},
		HuggingFace: ai.ProviderConfig{
			APIKey:   strings.TrimSpace(getEnv("HUGGINGFACE_API_KEY", "")),
			Endpoint: getEnv("HUGGINGFACE_ENDPOINT", ai.DefaultHuggingFaceEndpoint),
			IsFree:   true,
		},
		OpenAI: ai.ProviderConfig{
			APIKey:   strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
			Endpoint: getEnv("OPENAI_ENDPOINT", ai.DefaultOpenAIEndpoint),
			IsFree:   false,
		},
		RequestTimeout:   requestTimeout,
		MaxMessageLength: maxMessageLength,
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Providers возвращает конфигурацию провайдеров для пакета ai.
func (c AIConfig) Providers() ai.Config {
	return ai.Config{
		Gemini:      c.Gemini,
		HuggingFace: c.HuggingFace,
		OpenAI:      c.OpenAI,
	}
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if c.AI.MaxMessageLength <= 0 {
		return fmt.Errorf("AI_MAX_MESSAGE_LENGTH must be greater than 0")
	}

	endpoints := []struct {
		key   string
		value string
	}{
		{key: "GEMINI_ENDPOINT", value: c.AI.Gemini.Endpoint},
		{key: "HUGGINGFACE_ENDPOINT", value: c.AI.HuggingFace.Endpoint},
		{key: "OPENAI_ENDPOINT", value: c.AI.OpenAI.Endpoint},
	}
	for _, endpoint := range endpoints {
		if err := validateEndpoint(endpoint.key, endpoint.value); err != nil {
			return err
		}
	}

	for _, origin := range c.Server.CORSAllowedOrigins {
		if origin == "*" {
			continue
		}
		if err := validateEndpoint("CORS_ALLOWED_ORIGINS", origin); err != nil {
			return err
		}
	}

	return nil
}

func validateEndpoint(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid URL: %w", key, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", key)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", key)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseLevelEnv(key string, fallback slog.Level) (slog.Level, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return fallback, fmt.Errorf("%s must be one of debug, info, warn, error: %w", key, err)
	}

	return level, nil
}

// parseCSVEnv разбирает список через запятую. Origins сравниваются без учета регистра.
func parseCSVEnv(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
