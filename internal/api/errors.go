package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Error Mapping ──────────────────────────────────────────────────────────

// statusFor maps a service error to an HTTP status and an error type.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, domain.ErrInsufficientTickets):
		return http.StatusConflict, "insufficient_tickets"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, "precondition_failed"
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, "version_conflict"
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, "username_taken"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	}
	return http.StatusInternalServerError, "internal"
}

// fail writes err with its mapped status. Internal errors are logged and
// their text is not leaked to the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, status, kind, "internal error")
		return
	}
	writeError(w, status, kind, err.Error())
}

// validatable is implemented by every request body.
type validatable interface {
	Validate() error
}

// decode reads a JSON body into req and validates it. Decode and
// validation failures are reported as ErrInvalidRange.
func decode(r *http.Request, req validatable) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidRange, err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
	}
	return nil
}
