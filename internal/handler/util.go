package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/internal/service"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps a service-layer error onto an HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sekha.ErrNotFound):
		writeError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, service.ErrInsufficientSources),
		errors.Is(err, service.ErrDuplicateSources),
		errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrEmptyTranscript):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		var svcErr *sekha.ServiceError
		if errors.As(err, &svcErr) {
			writeError(w, http.StatusBadGateway, svcErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
