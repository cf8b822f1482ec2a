package ai

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderAuto        Provider = "auto"
	ProviderGemini      Provider = "gemini"
	ProviderHuggingFace Provider = "huggingface"
	ProviderOpenAI      Provider = "openai"
)

// autoPrecedence is the order in which "auto" looks for a configured provider.
var autoPrecedence = [...]Provider{ProviderGemini, ProviderHuggingFace, ProviderOpenAI}

// ParseProvider разбирает имя провайдера; пустая строка означает auto.
func ParseProvider(value string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(value))) {
	case "", ProviderAuto:
		return ProviderAuto, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderHuggingFace:
		return ProviderHuggingFace, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, value)
	}
}

func (p Provider) String() string {
	return string(p)
}
