package middleware

import (
	"encoding/json"
	"net/http"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/logging"
)

// statusByKind is the only place error kinds become HTTP statuses.
var statusByKind = map[apperrors.Kind]int{
	apperrors.KindValidation:       http.StatusBadRequest,
	apperrors.KindNotFound:         http.StatusNotFound,
	apperrors.KindStateConflict:    http.StatusBadRequest,
	apperrors.KindDuplicate:        http.StatusBadRequest,
	apperrors.KindCapacityConflict: http.StatusBadRequest,
	apperrors.KindUnauthorized:     http.StatusUnauthorized,
	apperrors.KindForbidden:        http.StatusForbidden,
	apperrors.KindInternal:         http.StatusInternalServerError,
}

func StatusFor(err error) int {
	if status, ok := statusByKind[apperrors.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error  string                 `json:"error"`
	Kind   string                 `json:"kind"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// WriteError renders err as {"error": ..., "kind": ...}. Internal errors are
// logged with their cause and reported generically.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Logger.WithError(err).WithField("event_id", RequestID(r.Context())).
			Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed", r.Method, r.URL.Path)
	}
	WriteJSON(w, status, errorBody{
		Error:  apperrors.PublicMessage(err),
		Kind:   apperrors.KindOf(err).String(),
		Fields: apperrors.FieldsOf(err),
	})
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.WithError(err).Warn("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response body")
	}
}
