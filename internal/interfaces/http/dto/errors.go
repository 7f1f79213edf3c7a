package dto

import (
	"net/http"

	"github.com/b2bportal/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// REFERENCE_MISSING normally stays inside a batch as a per-item error;
// the mapping still covers it for requests that bypass the batch path.
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:         http.StatusNotFound,
	shared.CodeValidationError:  http.StatusBadRequest,
	shared.CodeReferenceMissing: http.StatusBadRequest,
	shared.CodeUnauthorized:     http.StatusUnauthorized,
	shared.CodeInvalidState:     http.StatusUnprocessableEntity,
	"ALREADY_EXISTS":            http.StatusConflict,
	"INVALID_INPUT":             http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code,
// defaulting to 500 for anything unmapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
