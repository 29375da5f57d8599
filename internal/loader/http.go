package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ziadkadry99/sitesearch/internal/document"
)

// HTTP fetches the document set with a GET request.
type HTTP struct {
	URL    string
	Client *http.Client
}

func (h *HTTP) Load(ctx context.Context) ([]document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: h.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: h.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Source: h.URL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return decode(h.URL, resp.Body)
}
