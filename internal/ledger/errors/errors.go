package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden means the record exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this resource")
	// ErrInvalidRange means an explicitly supplied startDate > endDate.
	ErrInvalidRange = errors.New("start date must not be after end date")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

var ErrInvalidCategory = NewValidationError("Invalid expense category")
var ErrInvalidSource = NewValidationError("Invalid income source")

// StoreUnavailableError marks a persistence failure. It is distinct
// from "no matching records", which is a valid all-zero result.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("ledger store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func NewStoreUnavailable(err error) error {
	return &StoreUnavailableError{Err: err}
}

func IsStoreUnavailable(err error) bool {
	var storeErr *StoreUnavailableError
	return errors.As(err, &storeErr)
}
