package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"projecthub/microservices/progress-service/clients"
	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/middleware"
	"projecthub/microservices/progress-service/services"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// writeError maps domain and collaborator errors to HTTP answers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *services.ValidationError
		status     *clients.StatusError
	)
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required", "redirect": middleware.LoginPath})
	case errors.Is(err, services.ErrForbidden):
		logging.Logger.Warnf("Event ID: ACCESS_DENIED, Description: %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": validation.Fields})
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrSynchronizerClosed):
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"error": err.Error(), "retryable": true})
	case errors.Is(err, clients.ErrCollaboratorUnavailable):
		logging.Logger.Errorf("Event ID: COLLABORATOR_UNAVAILABLE, Description: %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"error": "backend unavailable, try again", "retryable": true})
	case errors.As(err, &status):
		code := status.StatusCode
		if status.Retryable() {
			logging.Logger.Errorf("Event ID: COLLABORATOR_ERROR, Description: %s %s: %v", r.Method, r.URL.Path, err)
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{"error": "backend request failed, try again", "retryable": true})
			return
		}
		body := map[string]string{"error": http.StatusText(code)}
		if code == http.StatusUnauthorized {
			body["redirect"] = middleware.LoginPath
		}
		writeJSON(w, code, body)
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]interface{}{"error": "backend timed out", "retryable": true})
	case errors.Is(err, context.Canceled):
		logging.Logger.Debugf("Event ID: REQUEST_CANCELLED, Description: %s %s cancelled by client", r.Method, r.URL.Path)
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return id, nil
}
