// Package errors provides unified error handling for recordkit.
// It implements structured error types with error codes, HTTP status mapping
// for the debug surface, and retryable / contract-violation classification.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// IsContractViolation reports whether the error belongs to the contract family.
func (e *AppError) IsContractViolation() bool {
	return IsContractCode(e.Code)
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Contract violations ---

// ContractViolation creates a generic contract violation.
func ContractViolation(reason string) *AppError {
	return &AppError{
		Code: ErrCodeContractViolation, Message: reason,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// RecordNotFound creates an error for an operation on an unregistered record.
func RecordNotFound(op, name string) *AppError {
	return &AppError{
		Code: ErrCodeRecordNotFound, Message: fmt.Sprintf("%s: record %q is not registered", op, name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"operation": op, "record": name},
	}
}

// AlreadyCreated creates an error for a second publish of the same record.
func AlreadyCreated(name string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyCreated, Message: fmt.Sprintf("record %q already has a payload", name),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"record": name},
	}
}

// Underflow creates an error for a close without a matching open.
func Underflow(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnderflow, Message: fmt.Sprintf("record %q closed more times than opened", name),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"record": name},
	}
}

// TypeMismatch creates an error for a typed open against a payload of another type.
func TypeMismatch(name string, want, got any) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("record %q holds %T, expected %T", name, got, want),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"record": name, "expected": fmt.Sprintf("%T", want), "actual": fmt.Sprintf("%T", got)},
	}
}

// ResourceExhausted creates an error for a registry that cannot hold another entry.
func ResourceExhausted(name string, limit int) *AppError {
	return &AppError{
		Code: ErrCodeResourceExhausted, Message: fmt.Sprintf("cannot register %q: limit of %d records reached", name, limit),
		HTTPStatus: http.StatusInsufficientStorage, Retryable: false,
		Details: map[string]any{"record": name, "limit": limit},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// --- Advisory and wait errors ---

// Busy creates an error for a record that still has holders.
func Busy(name string, holders int) *AppError {
	return &AppError{
		Code: ErrCodeBusy, Message: fmt.Sprintf("record %q still has %d holder(s)", name, holders),
		HTTPStatus: http.StatusConflict, Retryable: true,
		Details: map[string]any{"record": name, "holders": holders},
	}
}

// Timeout creates a new AppError for a wait that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Canceled creates a new AppError for a wait canceled by the caller.
func Canceled(operation string) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: fmt.Sprintf("%s canceled", operation),
		HTTPStatus: 499, Retryable: false,
		Details: map[string]any{"operation": operation},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
