package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// AuthErrorResponse keeps the envelope the auth routes have always used.
type AuthErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to encode response", zap.Error(err))
	}
}

// failure maps err onto a status code and a client-safe message. noun names
// the missing thing in a not-found message.
func failure(err error, noun string) (int, string, []string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error(), verr.Problems
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, "Invalid request body", nil
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required", nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Unauthorized: you can only delete your own records", nil
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, noun + " not found", nil
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already registered", nil
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict, "Record already exists", nil
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many failed login attempts, try again later", nil
	default:
		return http.StatusInternalServerError, "Internal server error", nil
	}
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error, noun string) {
	status, msg, problems := failure(err, noun)
	logFailure(log, status, err)
	writeJSON(w, log, status, ErrorResponse{Error: msg, Problems: problems})
}

func writeAuthError(w http.ResponseWriter, log *zap.Logger, err error) {
	status, msg, _ := failure(err, "User")
	logFailure(log, status, err)
	writeJSON(w, log, status, AuthErrorResponse{Error: msg})
}

func logFailure(log *zap.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
}

// decodeFields reads a JSON object body. An empty body yields no fields.
func decodeFields(r *http.Request) (validation.Fields, error) {
	fields := validation.Fields{}
	if r.Body == nil {
		return fields, nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Fields{}, nil
		}
		return nil, errBadBody
	}
	return fields, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}
