package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/villages"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	villages.EINVALID:     http.StatusBadRequest,
	villages.ENOTFOUND:    http.StatusNotFound,
	villages.ETOOMANY:     http.StatusTooManyRequests,
	villages.EUNAVAILABLE: http.StatusServiceUnavailable,
	villages.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err as a JSON error response. Internal and unavailable errors
// are logged since their details are hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := villages.ErrorCode(err), villages.ErrorMessage(err)

	if code == villages.EINTERNAL || code == villages.EUNAVAILABLE {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", code,
			"request_id", RequestIDFromContext(r.Context()),
			"err", err,
		)
	}

	writeJSON(w, ErrorStatusCode(code), &ErrorResponse{Error: message})
}

// storeUnavailable marks a failed store read as EUNAVAILABLE.
// Application errors pass through unchanged.
func storeUnavailable(err error) error {
	if villages.ErrorCode(err) != villages.EINTERNAL {
		return err
	}
	return fmt.Errorf("%w: %w", villages.Errorf(villages.EUNAVAILABLE, "record store unavailable"), err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
