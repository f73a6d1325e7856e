package errors

import "fmt"

// ErrorCode represents a protocolo error code.
type ErrorCode string

const (
	ErrValidationFailed     ErrorCode = "VALIDATION_FAILED"     // 422
	ErrTooManyDocuments     ErrorCode = "TOO_MANY_DOCUMENTS"    // 422
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrNotFound             ErrorCode = "NOT_FOUND"             // 404
	ErrConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED" // 409
	ErrStoreUnavailable     ErrorCode = "STORE_UNAVAILABLE"     // 503
	ErrInternal             ErrorCode = "INTERNAL"              // 500
)

// Error is a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationFailed creates a 422 error for a business-rule violation on a draft.
func NewValidationFailed(field, msg string) *Error {
	return &Error{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: msg,
		Details: map[string]any{"field": field},
	}
}

// NewTooManyDocuments creates a 422 error when a draft exceeds the document ceiling.
func NewTooManyDocuments(max, actual int) *Error {
	return &Error{
		Code:    ErrTooManyDocuments,
		Status:  422,
		Message: fmt.Sprintf("draft has %d documents (max %d)", actual, max),
		Details: map[string]any{"max_documents": max, "actual_documents": actual},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(id string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewConfirmationRequired creates a 409 result for a destructive action issued
// without its confirmation step. The caller re-issues with confirm set; declining
// leaves all state untouched.
func NewConfirmationRequired(action, id string) *Error {
	return &Error{
		Code:    ErrConfirmationRequired,
		Status:  409,
		Message: fmt.Sprintf("%s requires confirmation", action),
		Details: map[string]any{"action": action, "id": id},
	}
}

// NewStoreUnavailable creates a 503 error for a failed store operation.
// The triggering operation is not retried; prior state is left unchanged.
func NewStoreUnavailable(err error) *Error {
	msg := "record store unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an Error with the given code.
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
