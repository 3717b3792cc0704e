package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"coursemart/internal/middleware"
	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var statusByKind = map[model.ErrorKind]int{
	model.KindValidation:      http.StatusBadRequest,
	model.KindUnauthenticated: http.StatusUnauthorized,
	model.KindForbidden:       http.StatusForbidden,
	model.KindNotFound:        http.StatusNotFound,
	model.KindConflict:        http.StatusBadRequest,
	model.KindInternal:        http.StatusInternalServerError,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps err onto a status and a safe response body.
// Errors that are not domain errors are logged and reported as internal.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().
			Err(err).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("handler error")
		de = model.NewDomainError(model.KindInternal, model.ErrCodeInternalError, "Internal server error")
	}

	status, found := statusByKind[de.Kind]
	if !found {
		status = http.StatusInternalServerError
	}

	if status < http.StatusInternalServerError {
		logger.Debug().
			Str("request_id", requestID).
			Str("code", de.Code).
			Int("status", status).
			Msg("request rejected")
	}

	writeJSON(w, status, model.ErrorResponse{
		Error:         de.Code,
		Message:       de.Message,
		CorrelationID: requestID,
	})
}

// decodeJSON decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Request body is required")
		}
		return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Invalid request body")
	}
	return nil
}

// pathID parses the named path variable. A malformed id is reported as notFound.
func pathID(r *http.Request, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// currentUserID returns the authenticated caller's id.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return uuid.Nil, model.ErrUnauthenticated
	}
	return claims.Identity().ID, nil
}

func successResponse() model.SuccessResponse {
	return model.SuccessResponse{Success: true}
}
