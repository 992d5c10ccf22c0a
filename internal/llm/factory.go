package llm

import (
	"fmt"
	"strings"

	"site-builder/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	Provider           string
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenaiModel        string
	OpenaiVisionModel  string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		Provider:           string(cfg.LLMProvider),
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenaiModel:        cfg.OpenAIModel,
		OpenaiVisionModel:  cfg.OpenAIVisionModel,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, model, f.OpenRouterReferrer, f.OpenRouterTitle), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// Chat returns the client for conversation and site generation.
func (f *Factory) Chat() (Client, error) {
	return f.CreateClient(f.Provider, f.OpenaiModel)
}

// Vision returns the client used to describe images. Image input needs
// OpenAI, so it is used whenever an API key is configured. Without a key it
// returns a nil client and callers fall back to the chat client, whose
// image requests then fail with ErrVisionUnsupported.
func (f *Factory) Vision() (Client, error) {
	if f.OpenaiAPIKey == "" {
		return nil, nil
	}
	return f.CreateClient(ProviderOpenAI, f.OpenaiVisionModel)
}
