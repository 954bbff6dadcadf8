package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a contract violation by the caller, such as a
	// non-positive principal or term handed to a calculator.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrAmountExceedsMaximum = errors.New("requested amount exceeds the approved maximum")
	ErrAmountNotPositive    = errors.New("requested amount must be positive")
	ErrOptionNotFound       = errors.New("installment option not found")
	ErrNoPreApproval        = errors.New("quote has no pre-approval")

	// ErrUnexpectedResponse is matched by every DecodeError.
	ErrUnexpectedResponse = errors.New("unexpected pre-approval response")

	// ErrTransport marks a pre-approval source that could not be reached.
	ErrTransport = errors.New("pre-approval source unavailable")
)

// ValidationCode classifies a caller-correctable error.
type ValidationCode string

const (
	CodeAmountExceedsMaximum ValidationCode = "AMOUNT_EXCEEDS_MAXIMUM"
	CodeAmountNotPositive    ValidationCode = "AMOUNT_NOT_POSITIVE"
	CodeOptionNotFound       ValidationCode = "OPTION_NOT_FOUND"
	CodeNoPreApproval        ValidationCode = "NO_PRE_APPROVAL"
)

// ValidationError is returned for input the caller can correct and resubmit.
type ValidationError struct {
	Code    ValidationCode
	Message string
	err     error
}

func newValidationError(code ValidationCode, sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.err }

// DecodeError reports a malformed field in a pre-approval response.
type DecodeError struct {
	Field string
	Err   error
}

// NewDecodeError wraps cause as a decode fault on field.
func NewDecodeError(field string, cause error) *DecodeError {
	return &DecodeError{Field: field, Err: cause}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode pre-approval field %q: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrUnexpectedResponse, e.Err} }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
