package api

import (
	"net/http"
)

// MomentumHandler computes momentum for posted matches.
type MomentumHandler struct {
	deps Dependencies
}

// NewMomentumHandler creates a new momentum handler.
func NewMomentumHandler(deps Dependencies) *MomentumHandler {
	return &MomentumHandler{deps: deps}
}

// HandlePostMomentum handles POST /momentum. The match is not stored.
func (h *MomentumHandler) HandlePostMomentum(w http.ResponseWriter, r *http.Request) {
	const op = "api.compute_momentum"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	m, err := decodeMatch(op, w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.deps.Compute(r.Context(), m)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
