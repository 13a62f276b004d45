// Package error defines the API error taxonomy and response encoding.
package error

import (
	"encoding/json"
	"net/http"
)

// Error is the JSON body returned on every failed request. ErrorID is
// the request id, so a client report can be matched against the logs.
type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code ErrorCode, message, errorID string) *Error {
	return &Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: errorID,
	}
}

// EncodeError writes an error response with the status mapped from the code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.StatusCode())
	return json.NewEncoder(w).Encode(NewError(code, message, errorID))
}

// EncodeInternalError writes a generic 500 response. Internal detail stays
// in the logs.
func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}
