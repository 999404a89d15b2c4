package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrValidation rejects input with a missing or out of range field
	ErrValidation = errors.New("invalid input")
	// ErrDuplicateEmail rejects a signup for an email that is already registered
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned when no user matches the email
	ErrNotFound = errors.New("not found")
)

// checkPrintable rejects control characters, which a CSV read does not return
func checkPrintable(field, value string) error {
	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %s contains control characters", ErrValidation, field)
	}
	return nil
}
