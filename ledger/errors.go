package ledger

import (
	"errors"
	"fmt"
)

// ParseError is returned when text cannot be read as a ledger value such as
// money, a category, a month or a date.
type ParseError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Value, e.Kind, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Value, e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewParseError(kind, value string, err error) *ParseError {
	return &ParseError{Kind: kind, Value: value, Err: err}
}

// InvariantError reports data that the engine cannot classify, such as
// receipts recorded against an expense or an unknown resolution type. These
// point at a bug or a hand-edited document and always abort the command.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Op, e.Detail)
}

func NewInvariantError(op, detail string) *InvariantError {
	return &InvariantError{Op: op, Detail: detail}
}

// PreconditionError is returned when an operation is attempted on a month in
// the wrong state, e.g. closing a closed month.
type PreconditionError struct {
	Op     string
	Month  YearMonth
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Month.IsZero() {
		return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("cannot %s %s: %s", e.Op, e.Month, e.Reason)
}

func NewPreconditionError(op string, month YearMonth, reason string) *PreconditionError {
	return &PreconditionError{Op: op, Month: month, Reason: reason}
}

// IsParseError reports whether err wraps a ParseError.
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsInvariantError reports whether err wraps an InvariantError.
func IsInvariantError(err error) bool {
	var target *InvariantError
	return errors.As(err, &target)
}

// IsPreconditionError reports whether err wraps a PreconditionError.
func IsPreconditionError(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}
