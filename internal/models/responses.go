package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Stable machine-readable codes for the error taxonomy
const (
	CodeValidation         = "validation_error"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeConflict           = "conflict"
	CodeInternal           = "internal_error"
)

// FieldViolation describes a single failed request-shape constraint
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// ValidationErrorResponse enumerates every violated field constraint
type ValidationErrorResponse struct {
	Error      string           `json:"error"`
	Code       string           `json:"code"`
	Violations []FieldViolation `json:"violations"`
}
