package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mondaylearn/monday-learn-api/pkg/learning"
	"github.com/mondaylearn/monday-learn-api/pkg/logger"
	"github.com/mondaylearn/monday-learn-api/pkg/studyset"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps engine errors onto the HTTP taxonomy: not found, ownership,
// validation, and everything else as a store failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, learning.ErrStudySetNotFound),
		errors.Is(err, learning.ErrTermNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, learning.ErrNotOwner):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, learning.ErrInvalidAttempt),
		errors.Is(err, studyset.ErrInvalidStudySet):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r),
			"error", err,
		)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
