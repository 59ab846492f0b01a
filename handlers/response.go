package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"
)

// APIError is the JSON body of every error response. Message never carries
// internal detail.
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

var (
	errInternal = APIError{
		Code:       ErrorCodeInternalServerError,
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
	}
	errNotFound = APIError{
		Code:       ErrorCodeNotFound,
		Message:    "not found",
		StatusCode: http.StatusNotFound,
	}
	errMethodNotAllowed = APIError{
		Code:       ErrorCodeMethodNotAllowed,
		Message:    "method not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}
)

// respondJSON encodes the payload before touching the ResponseWriter so an
// encoding failure can still become a clean 500.
func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("encode response failed", slog.Any("err", err))
		status = errInternal.StatusCode
		body, _ = json.Marshal(errInternal)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Warn("write response failed", slog.Any("err", err))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, apiErr APIError) {
	respondJSON(w, logger, apiErr.StatusCode, apiErr)
}
