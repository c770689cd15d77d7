package apiserver

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable error kinds surfaced to callers.
const (
	KindInvalidRequest   = "invalid_request"
	KindDuplicateRequest = "duplicate_request"
	KindNotAuthorized    = "not_authorized"
	KindInvalidState     = "invalid_state"
	KindConflict         = "conflict"
	KindNotFound         = "not_found"
	KindUnavailable      = "unavailable"
	KindInternal         = "internal"
)

// ErrorResponse is the common shape of API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeJSONError(w http.ResponseWriter, kind, message string, statusCode int) {
	writeJSONResponse(w, statusCode, ErrorResponse{Error: message, Kind: kind})
}
