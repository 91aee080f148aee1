package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorDetail is the machine-readable part of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every non-2xx JSON response uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing useful to do with a failed response write
	json.NewEncoder(w).Encode(v)
}

// writeNotFound writes a 404 envelope. The caller supplies the human-readable
// message (e.g. "trip not found") because the handler is the layer that knows
// what was being looked up.
func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}})
}

// writeValidation writes a 422 envelope for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func writeValidation(w http.ResponseWriter, err error) {
	writeRequestError(w, unwrapMessage(err))
}

// writeRequestError writes a 422 envelope for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// writeUnauthorized writes a 401 envelope.
func writeUnauthorized(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Code: "unauthorized", Message: unwrapMessage(err)}})
}

// writeInternal logs the unexpected error and writes an opaque 500 envelope.
// Oversized request bodies surface here as *http.MaxBytesError and map to
// 413 instead.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge,
			ErrorResponse{Error: ErrorDetail{Code: "too_large", Message: "request body too large"}})
		return
	}
	slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError,
		ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
}

// decodeJSON parses the request body into dst. On failure it writes the
// appropriate error response and returns false; oversized bodies map to 413,
// everything else to 422.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeInternal(w, r, err)
			return false
		}
		writeRequestError(w, "request body must be valid JSON")
		return false
	}
	return true
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "validation error: amount must be greater than zero" becomes "amount
// must be greater than zero". Service prefixes are peeled off first.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, prefix := range []string{
		"service.TripService.Create: ",
		"service.ExpenseService.Create: ",
		"validation error: ",
		"unauthorized: ",
	} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return msg
}
