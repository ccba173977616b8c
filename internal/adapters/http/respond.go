package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"planner/internal/adapters/http/middleware"
	"planner/internal/adapters/storage"
	"planner/internal/application/orchestrators"
	"planner/internal/domain/access"
	"planner/internal/domain/guest"
	"planner/internal/domain/profile"
	"planner/internal/domain/task"
	"planner/internal/domain/vendor"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

// validationErrors are user-correctable and answered with 400 and their message.
var validationErrors = []error{
	errBadRequest,
	profile.ErrInvalidEmail,
	profile.ErrEmptyEmail,
	profile.ErrEmailTooLong,
	profile.ErrEmptyCoupleName,
	profile.ErrCoupleNameTooLong,
	profile.ErrInvalidDate,
	profile.ErrEmptyPassword,
	profile.ErrPasswordTooShort,
	profile.ErrTokenExpired,
	profile.ErrTokenUsed,
	orchestrators.ErrInvalidResetToken,
	orchestrators.ErrPasswordFieldsMissing,
	orchestrators.ErrCurrentPasswordWrong,
	orchestrators.ErrNewPasswordSame,
	vendor.ErrEmptyName,
	vendor.ErrEmptyType,
	vendor.ErrNameTooLong,
	vendor.ErrNotesTooLong,
	guest.ErrEmptyFirstName,
	guest.ErrEmptyLastName,
	guest.ErrNameTooLong,
	guest.ErrNotesTooLong,
	guest.ErrInvalidRSVP,
	guest.ErrInvalidTableNum,
	task.ErrInvalidPhase,
}

// statusFor maps a domain or orchestrator error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, access.ErrUnauthenticated), errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, orchestrators.ErrProfileLocked):
		return http.StatusLocked
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// userMessage is the text shown to the client for err. Internal errors never leak.
func userMessage(err error) string {
	switch statusFor(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusNotFound:
		return "not found"
	}
	return err.Error()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
}

// writeError answers an API request with the status and message err maps to.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	middleware.WriteJSONError(w, status, userMessage(err))
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode_failed", "error", err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
// Decoding failures wrap errBadRequest.
func strictDecode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 64<<10)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
