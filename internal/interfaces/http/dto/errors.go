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
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
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
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodePaymentRejected is used when the payment gateway declines a request
	ErrCodePaymentRejected = "ERR_PAYMENT_REJECTED"
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

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodePaymentRejected:   http.StatusBadGateway,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain-layer error codes to the standardized
// wire format. Codes emitted by entities and services stay short and
// descriptive; the API surface exposes the ERR_* vocabulary.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"UNAUTHORIZED":   ErrCodeUnauthorized,

	"INVALID_INPUT":     ErrCodeInvalidInput,
	"INVALID_NAME":      ErrCodeInvalidInput,
	"INVALID_PRICE":     ErrCodeInvalidInput,
	"INVALID_STOCK":     ErrCodeInvalidInput,
	"INVALID_CATEGORY":  ErrCodeInvalidInput,
	"INVALID_PARENT":    ErrCodeInvalidInput,
	"INVALID_CUSTOMER":  ErrCodeInvalidInput,
	"INVALID_ADDRESS":   ErrCodeInvalidInput,
	"INVALID_FEE":       ErrCodeInvalidInput,
	"INVALID_QUANTITY":  ErrCodeInvalidInput,
	"INVALID_PRODUCT":   ErrCodeInvalidInput,
	"INVALID_LOCATION":  ErrCodeInvalidInput,
	"INVALID_PHONE":     ErrCodeInvalidInput,
	"INVALID_AMOUNT":    ErrCodeInvalidInput,
	"INVALID_REQUEST":   ErrCodeInvalidInput,
	"INVALID_RECEIPT":   ErrCodeInvalidInput,
	"INVALID_TIME":      ErrCodeInvalidInput,
	"INVALID_EMAIL":     ErrCodeInvalidInput,
	"INVALID_FREQUENCY": ErrCodeInvalidInput,
	"INVALID_IMAGE":     ErrCodeInvalidInput,
	"INVALID_ORDER":     ErrCodeInvalidInput,
	"INVALID_STATUS":    ErrCodeInvalidInput,
	"INVALID_PAYLOAD":   ErrCodeInvalidJSON,

	"INVALID_STATE":       ErrCodeInvalidState,
	"INVALID_TRANSITION":  ErrCodeInvalidState,
	"ALREADY_PAID":        ErrCodeBusinessRule,
	"HAS_CHILDREN":        ErrCodeBusinessRule,
	"HAS_PRODUCTS":        ErrCodeBusinessRule,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"STK_REJECTED":        ErrCodePaymentRejected,
	"BALANCE_UNAVAILABLE": ErrCodeNotFound,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
