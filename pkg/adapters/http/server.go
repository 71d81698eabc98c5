// Package http exposes a router tree as a small JSON API, so navigation
// can be driven (and inspected) remotely: dev tooling, smoke tests, or a
// backend-for-frontend that owns the canonical navigation state.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Server wraps a root router behind HTTP handlers.
type Server struct {
	Router *espalier.Router
}

// NewHandler creates the HTTP handler for a router tree.
//
//	POST /navigate   {"url": "/users/42"}  -> {"canonical_url": "/users/42"}
//	GET  /generate?name=UserShell&id=42    -> {"url": "/users/42"}
//	GET  /state                            -> navigation state snapshot
func NewHandler(router *espalier.Router) http.Handler {
	server := &Server{Router: router}

	r := chi.NewRouter()
	r.Post("/navigate", server.handleNavigate)
	r.Get("/generate", server.handleGenerate)
	r.Get("/state", server.handleState)
	return r
}

type navigateRequest struct {
	URL string `json:"url"`
}

type navigateResponse struct {
	CanonicalURL string `json:"canonical_url"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"url\": \"...\"}"})
		return
	}

	canonical, err := s.Router.Navigate(r.Context(), req.URL)
	if err != nil {
		s.writeNavigationError(w, req.URL, err)
		return
	}
	writeJSON(w, http.StatusOK, navigateResponse{CanonicalURL: canonical})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter 'name' is required"})
		return
	}

	params := make(map[string]string)
	for key, values := range query {
		if key == "name" || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}

	url, err := s.Router.Generate(r.Context(), name, params)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"router":                  s.Router.Name(),
		"previous_url":            s.Router.PreviousURL(),
		"last_navigation_attempt": s.Router.LastNavigationAttempt(),
		"navigating":              s.Router.Navigating(),
	})
}

// writeNavigationError maps the error taxonomy onto status codes. Gate
// denials are 403: the navigation was understood but refused.
func (s *Server) writeNavigationError(w http.ResponseWriter, url string, err error) {
	resp := errorResponse{Error: err.Error()}

	var navErr *domain.NavigationError
	if errors.As(err, &navErr) {
		resp.Kind = string(navErr.Phase)
	}

	status := http.StatusBadGateway // collaborator failure
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		status = http.StatusNotFound
		if suggester, ok := s.Router.Registry().(ports.Suggester); ok {
			if nearest, found := suggester.Suggest(url); found {
				resp.Suggestion = nearest
			}
		}
	case errors.Is(err, domain.ErrAlreadyNavigating):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrDeactivationDenied), errors.Is(err, domain.ErrActivationDenied):
		status = http.StatusForbidden
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
