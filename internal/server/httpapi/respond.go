package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cardtrack/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// errorStatus maps a service error onto a status code and the message that
// is safe to show the client.
func errorStatus(err error) (int, string) {
	var (
		ve *common.ValidationError
		ce *common.ConflictError
		fe *common.ForbiddenError
		nf *common.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &ce):
		return http.StatusConflict, ce.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.InvalidCredentialsMessage
	case common.IsAuthError(err):
		return http.StatusUnauthorized, tokenMessage(err)
	case errors.As(err, &fe):
		return http.StatusForbidden, fe.Error()
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "You are not allowed to perform this action"
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not found"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func tokenMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, common.ErrInvalidToken):
		return "Invalid token"
	}
	return "Missing Authorization Header"
}

// fail writes err as a JSON error. Anything that maps to 500 is logged with
// its cause; the client only sees the generic message.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errorStatus(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err)
	}
	writeError(w, code, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &common.ValidationError{Field: "body", Message: "Request body must be a JSON object"}
	}
	return nil
}
