package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/session"
)

// Error is the payload of every error response. It is wrapped in an
// "error" envelope so clients can tell failures from device payloads by
// body shape alone.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error Error `json:"error"`
}

// Stable machine-readable error codes.
const (
	ErrCodeConfigIncomplete = "configuration_incomplete"
	ErrCodeAuthFailed       = "authentication_failed"
	ErrCodeConnectionFailed = "connection_failed"
	ErrCodeNotInitialized   = "not_initialized"
	ErrCodeDeviceOperation  = "device_operation_failed"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeRaw writes a device payload through unchanged. Empty payloads
// (the device acked without a body) become a plain ok acknowledgement.
func writeRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	if len(raw) == 0 {
		writeJSON(w, status, map[string]string{"status": "ok"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(raw)
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{
		Error: Error{
			Code:    code,
			Message: message,
		},
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps a session or device error to its stable code.
//
// Transport failures (dial, cloud reachability, timeouts, lost
// connections) become connection_failed; a device that answered but
// refused becomes device_operation_failed. Callers that need a different
// mapping (initialize, presets) handle their sentinels before calling
// this.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotInitialized):
		writeError(w, http.StatusConflict, ErrCodeNotInitialized,
			"no active session; call POST /initialize first")
	case errors.Is(err, bose.ErrAuthFailed):
		writeError(w, http.StatusUnauthorized, ErrCodeAuthFailed, err.Error())
	case errors.Is(err, bose.ErrCloudUnreachable),
		errors.Is(err, bose.ErrConnectFailed),
		errors.Is(err, bose.ErrNotConnected),
		errors.Is(err, bose.ErrRequestTimeout):
		writeError(w, http.StatusBadGateway, ErrCodeConnectionFailed, err.Error())
	case errors.Is(err, bose.ErrPresetNotSet):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, bose.ErrDeviceOperation),
		errors.Is(err, bose.ErrInvalidResponse):
		writeError(w, http.StatusBadGateway, ErrCodeDeviceOperation, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
