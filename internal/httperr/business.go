package httperr

import (
	"errors"
	"fmt"
)

// ValidationError is a business rule rejection surfaced to the end user.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrValidation(code, message string) error {
	return ValidationError{Code: code, Message: message}
}

// ErrBusiness is kept for rules whose code is self-explanatory.
func ErrBusiness(code string) error {
	return ValidationError{Code: code}
}

// IsValidation reports whether err is a ValidationError. An empty code
// matches any validation error.
func IsValidation(err error, code string) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return code == "" || ve.Code == code
	}
	return false
}

func IsBusiness(err error, code string) bool {
	return IsValidation(err, code)
}

// ValidationCode returns the code of a ValidationError, or "".
func ValidationCode(err error) string {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func ErrNotFound(entity, id string) error {
	return NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// StoreError marks a persistence failure. Callers may retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ErrStore wraps err unless it already carries a domain classification.
func ErrStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err, "") || IsNotFound(err) || IsStore(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
