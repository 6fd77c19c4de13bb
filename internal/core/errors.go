package core

import "errors"

// ErrValidation matches every field-level rejection returned by this package.
var ErrValidation = errors.New("validation failed")

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds an error that satisfies errors.Is(err, ErrValidation).
func NewValidationError(msg string) error {
	return &validationError{msg: msg}
}

var (
	ErrMissingFields   = NewValidationError("Missing required fields")
	ErrInvalidDay      = NewValidationError("Day must be 15 or 30")
	ErrInvalidCounts   = NewValidationError("Counts must be non-negative numbers")
	ErrInvalidPeriod   = NewValidationError("Invalid period dates")
	ErrPeriodOrder     = NewValidationError("period_from must be <= period_to")
	ErrInvalidMonth    = NewValidationError("Invalid month")
	ErrMonthDayMissing = NewValidationError("month and day required")
	ErrInvalidYear     = NewValidationError("year must be a four digit number")
	ErrInvalidReport   = NewValidationError("reportType must be Receive or Distribution")
	ErrReportParams    = NewValidationError("Missing reportType or year")
	ErrInvalidFlow     = NewValidationError("unknown reconciliation flow")
)

var (
	// ErrDuplicateSubmission reports an existing row for the same identity.
	ErrDuplicateSubmission = errors.New("You have already submitted for this month & date")
	// ErrNotFound reports a missing record, or a reconciliation pass with no
	// source rows.
	ErrNotFound = errors.New("No entries found for given month/day")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("requires admin role")
)

// ValidationMessage returns the client-facing text of a validation error
// anywhere in err's chain, or "" when err is not one.
func ValidationMessage(err error) string {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.msg
	}
	return ""
}
