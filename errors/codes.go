package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Contract violations. These signal a programming defect in a caller and are
// never returned from the core record operations; they are raised.
const (
	// ErrCodeContractViolation is the generic contract violation code.
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"
	// ErrCodeRecordNotFound indicates an operation on a name that is not registered.
	ErrCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"
	// ErrCodeAlreadyCreated indicates a second publish for a name whose payload is present.
	ErrCodeAlreadyCreated ErrorCode = "RECORD_ALREADY_CREATED"
	// ErrCodeUnderflow indicates a close without a matching open.
	ErrCodeUnderflow ErrorCode = "RECORD_UNDERFLOW"
	// ErrCodeTypeMismatch indicates a typed open against a payload of another type.
	ErrCodeTypeMismatch ErrorCode = "RECORD_TYPE_MISMATCH"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeResourceExhausted indicates the registry cannot hold another entry.
	ErrCodeResourceExhausted ErrorCode = "RESOURCE_EXHAUSTED"
)

// Advisory and wait errors
const (
	// ErrCodeBusy indicates a record still has holders and cannot be destroyed yet.
	ErrCodeBusy ErrorCode = "RECORD_BUSY"
	// ErrCodeTimeout indicates a wait timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates a wait was canceled by the caller.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeValidation indicates configuration or request input failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeBusy:     true,
	ErrCodeTimeout:  true,
	ErrCodeInternal: false,
}

var contractCodes = map[ErrorCode]bool{
	ErrCodeContractViolation: true,
	ErrCodeRecordNotFound:    true,
	ErrCodeAlreadyCreated:    true,
	ErrCodeUnderflow:         true,
	ErrCodeTypeMismatch:      true,
	ErrCodeInvalidInput:      true,
	ErrCodeResourceExhausted: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsContractCode returns true if the code belongs to the contract violation family.
func IsContractCode(code ErrorCode) bool {
	return contractCodes[code]
}
