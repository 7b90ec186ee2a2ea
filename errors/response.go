package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorResponse is the JSON structure returned by the debug surface, shaped after RFC 7807.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsContractViolation reports whether err is an AppError of the contract family.
func IsContractViolation(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsContractViolation()
}

// FromRecovered converts a value obtained from recover() into an AppError.
// Returns nil when v is nil.
func FromRecovered(v any) *AppError {
	switch x := v.(type) {
	case nil:
		return nil
	case *AppError:
		return x
	case error:
		if appErr, ok := AsAppError(x); ok {
			return appErr
		}
		return Internal(x)
	default:
		return Internal(fmt.Errorf("%v", x))
	}
}
