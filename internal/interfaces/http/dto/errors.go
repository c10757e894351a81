package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ERP integration error codes
const (
	// ErrCodeErpUnavailable is used when the remote ERP cannot be reached
	ErrCodeErpUnavailable = "ERR_ERP_UNAVAILABLE"
	// ErrCodeErpTimeout is used when an ERP call exceeds its deadline
	ErrCodeErpTimeout = "ERR_ERP_TIMEOUT"
	// ErrCodeErpRejected is used when the ERP rejects the submitted record
	ErrCodeErpRejected = "ERR_ERP_REJECTED"
	// ErrCodeErpLoginFailed is used when ERP authentication fails
	ErrCodeErpLoginFailed = "ERR_ERP_LOGIN_FAILED"
	// ErrCodeErpBadResponse is used when the ERP returns an unparseable response
	ErrCodeErpBadResponse = "ERR_ERP_BAD_RESPONSE"
	// ErrCodeErpNotConfigured is used when no ERP connector is configured
	ErrCodeErpNotConfigured = "ERR_ERP_NOT_CONFIGURED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// ERP integration errors: upstream failures map to gateway statuses,
	// rejections of our own data map to 422
	ErrCodeErpUnavailable:   http.StatusBadGateway,
	ErrCodeErpTimeout:       http.StatusGatewayTimeout,
	ErrCodeErpRejected:      http.StatusUnprocessableEntity,
	ErrCodeErpLoginFailed:   http.StatusBadGateway,
	ErrCodeErpBadResponse:   http.StatusBadGateway,
	ErrCodeErpNotConfigured: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to the standardized API codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := domainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
