package embeddings

import (
	"context"
	"fmt"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config selects and configures an embedding provider.
type Config struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// New builds the embedder described by cfg.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		model := OpenAIModel(cfg.Model)
		if model == "" {
			model = ModelTextEmbedding3Small
		}
		if cfg.BaseURL != "" {
			return NewOpenAICompatibleEmbedder(cfg.APIKey, cfg.BaseURL, model), nil
		}
		return NewOpenAIEmbedder(cfg.APIKey, model), nil
	case ProviderOllama:
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaEmbedder(model, cfg.Dimensions, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: must be one of openai, ollama", cfg.Provider)
	}
}
