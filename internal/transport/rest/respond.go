package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Fields  []fieldErrorBody `json:"fields,omitempty"`
	Details map[string]any   `json:"details,omitempty"`
}

type fieldErrorBody struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// so handlers with all-optional fields accept bodiless requests.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// pathUUID parses a uuid route variable.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError(name, "must be a boolean")
	}
	return b, nil
}

// handleError maps domain errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a bare 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		ie *domain.InsufficientDataError
	)
	switch {
	case errors.As(err, &ve):
		body := errorBody{Code: "VALIDATION", Message: validationMessage(ve)}
		for _, fe := range ve.Errors {
			body.Fields = append(body.Fields, fieldErrorBody{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, map[string]errorBody{"error": body})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "ALREADY_EXISTS", "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrSessionClosed):
		writeError(w, http.StatusGone, "SESSION_CLOSED", "session is closed")
	case errors.As(err, &ie):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]errorBody{"error": {
			Code:    "INSUFFICIENT_DATA",
			Message: ie.Error(),
			Details: map[string]any{"pool": ie.Pool, "need": ie.Need, "have": ie.Have},
		}})
	case errors.Is(err, domain.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", err.Error())
	default:
		attrs := append([]slog.Attr{slog.String("error", err.Error())}, ctxutil.LogAttrs(r.Context())...)
		log.LogAttrs(r.Context(), slog.LevelError, "internal error", attrs...)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func validationMessage(ve *domain.ValidationError) string {
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}
	return fmt.Sprintf("%d fields are invalid", len(ve.Errors))
}
