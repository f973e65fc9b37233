package httpapi

import (
	"encoding/json"
	"net/http"
)

// Error kinds shared across handlers. The store relays its own statuses for
// upstream failures; these cover everything the gateway detects itself.
const (
	KindBadRequest       = "bad_request"
	KindInvalidTimeRange = "invalid_time_range"
	KindDoubleBooking    = "double_booking"
	KindConflictCheck    = "conflict_check_failed"
	KindUnauthorized     = "unauthorized"
	KindNotFound         = "not_found"
	KindTooManyRequests  = "too_many_requests"
	KindInternalError    = "internal_error"
)

// ErrorBody is the structured error payload returned by the gateway.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a structured error body.
func Error(w http.ResponseWriter, status int, kind, message string) {
	JSON(w, status, ErrorBody{Error: kind, Message: message})
}

// ErrorWithDetails writes a structured error body carrying an upstream detail.
func ErrorWithDetails(w http.ResponseWriter, status int, kind, message, details string) {
	JSON(w, status, ErrorBody{Error: kind, Message: message, Details: details})
}

// Relay forwards an upstream status and raw JSON body to the caller. An
// empty or missing body collapses to an empty object so clients always get
// valid JSON.
func Relay(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(body) == 0 {
		_, _ = w.Write([]byte("{}"))
		return
	}
	_, _ = w.Write(body)
}
