package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/schema"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

func writeValidationErrors(w http.ResponseWriter, errs []schema.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   "validation failed",
		"fields":  errs,
	})
}

// writeDomainError maps domain sentinels onto the HTTP taxonomy. Anything
// unexpected becomes a generic 500; internals are logged upstream, never
// leaked to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "missing or invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "you do not have access to this resource")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "this payment method is temporarily unavailable, please contact support")
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownProvider):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrSignatureMismatch):
		// A bad hash is a failed verification, not a server fault.
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "payment verification failed"})
	default:
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}
