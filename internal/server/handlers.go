package server

import (
	"encoding/json"
	"net/http"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitesearch/internal/index"
	"github.com/ziadkadry99/sitesearch/internal/widget"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"state":     s.widget.State(),
		"documents": s.widget.Len(),
		"session":   s.widget.Session().String(),
	})
}

// statusFor maps a view to an HTTP status: load failures are 503, query
// failures 500.
func statusFor(v widget.View, err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case v.State == widget.Failed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleSearchFragment answers GET /search?q= with the replacement results
// container as an HTML fragment.
func (s *Server) handleSearchFragment(w http.ResponseWriter, r *http.Request) {
	v, err := s.widget.HandleInput(r.Context(), r.URL.Query().Get("q"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusFor(v, err))
	if v.Node != nil {
		if err := html.Render(w, v.Node); err != nil {
			s.log.Warn().Err(err).Msg("render fragment")
		}
	}
}

type apiResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Date        string `json:"date,omitempty"`
	Field       string `json:"field"`
	Highlight   string `json:"highlight"`
}

type apiResponse struct {
	Query   string       `json:"query"`
	State   widget.State `json:"state"`
	Results []apiResult  `json:"results"`
	Error   string       `json:"error,omitempty"`
}

func (s *Server) handleSearchJSON(w http.ResponseWriter, r *http.Request) {
	v, err := s.widget.HandleInput(r.Context(), r.URL.Query().Get("q"))
	resp := apiResponse{
		Query:   v.Query,
		State:   v.State,
		Results: make([]apiResult, 0, len(v.Results)),
	}
	if err != nil {
		resp.Error = "search unavailable"
	}
	for _, res := range v.Results {
		resp.Results = append(resp.Results, s.toAPI(res))
	}
	writeJSON(w, statusFor(v, err), resp)
}

func (s *Server) toAPI(r index.Result) apiResult {
	d := r.Document
	return apiResult{
		URL:         d.URL,
		Title:       d.DisplayTitle(),
		Description: d.Description,
		Image:       s.widget.Thumbnail(d),
		Date:        s.widget.FormatDate(d),
		Field:       r.Field,
		Highlight:   r.Highlight.HTML(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
