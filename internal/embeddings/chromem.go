package embeddings

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// ErrNoEmbedding is returned when a provider answers without a vector.
var ErrNoEmbedding = errors.New("provider returned no embedding")

// ChromemFunc adapts e to chromem's one-text-at-a-time embedding function.
// A vector whose length differs from e.Dimensions() is rejected; providers
// reporting zero dimensions are not checked.
func ChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 || len(results[0]) == 0 {
			return nil, fmt.Errorf("%s: %w", e.Name(), ErrNoEmbedding)
		}
		if want := e.Dimensions(); want > 0 && len(results[0]) != want {
			return nil, fmt.Errorf("%s: got %d dimensions, want %d", e.Name(), len(results[0]), want)
		}
		return results[0], nil
	}
}
