package dataset

import (
	"errors"
	"fmt"
)

// ErrDegenerate indicates a dataset with zero rows or zero columns where a
// ratio over either is required.
var ErrDegenerate = errors.New("degenerate dataset: zero rows or zero columns")

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a column that cannot be used as requested,
// e.g. a categorical column fed to a numeric computation.
type InvalidInputError struct {
	Column string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: column %q: %s", e.Column, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// NewInvalidInput builds an *InvalidInputError. column may be empty.
func NewInvalidInput(column, format string, args ...any) error {
	return &InvalidInputError{Column: column, Reason: fmt.Sprintf(format, args...)}
}
