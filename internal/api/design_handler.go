package api

import (
	"encoding/json"
	"net/http"
)

// designRequest is the body of POST /v1/design.
type designRequest struct {
	Requirement string `json:"requirement"`
}

// handleDesign runs one generation request. The generator never fails,
// so apart from malformed requests this endpoint always answers 200
// with a document string.
func (h *handler) handleDesign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.generator == nil {
		writeError(w, http.StatusInternalServerError, "generator_unavailable")
		return
	}
	var req designRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	document := h.generator.GenerateDesignDocument(r.Context(), req.Requirement)
	writeDesignResponse(w, designResponse{
		Document:  document,
		RequestID: requestIDFrom(r.Context()),
	})
}
