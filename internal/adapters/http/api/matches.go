package api

import (
	"net/http"
	"strings"
)

// MatchesHandler serves the match catalog.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleMatches handles GET /matches (catalog listing) and POST /matches
// (registration).
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.deps.ListMatches(r.Context())
		if err != nil {
			writeError(w, Wrap("api.list_matches", err))
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		const op = "api.register_match"
		m, err := decodeMatch(op, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		stored, err := h.deps.Register(r.Context(), m)
		if err != nil {
			writeError(w, Wrap(op, err))
			return
		}
		w.Header().Set("Location", "/matches/"+stored.ID)
		writeJSON(w, http.StatusCreated, stored)
	default:
		http.NotFound(w, r)
	}
}

// HandleMatch handles GET /matches/{id} and GET /matches/{id}/momentum.
func (h *MatchesHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract path parameters after /matches/
	rest := strings.TrimPrefix(r.URL.Path, "/matches/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, NewKind("api.get_match", ErrBadRequest))
		return
	}

	switch sub {
	case "":
		m, err := h.deps.Match(r.Context(), id)
		if err != nil {
			writeError(w, Wrap("api.get_match", err))
			return
		}
		writeJSON(w, http.StatusOK, m)
	case "momentum":
		out, err := h.deps.Momentum(r.Context(), id)
		if err != nil {
			writeError(w, Wrap("api.get_momentum", err))
			return
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.NotFound(w, r)
	}
}
