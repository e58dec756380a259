package errors

import (
	"errors"
	"fmt"
)

// Common error types for the study client
var (
	// Session errors
	ErrNoToken          = errors.New("no access token")
	ErrSessionExpired   = errors.New("session expired")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStoreUnavailable = errors.New("session store unavailable")

	// Account errors
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyRegistered = errors.New("account already registered")
	ErrAccountNotFound   = errors.New("account not found")

	// Capability errors
	ErrNotAdmin = errors.New("admin role required")

	// Self-test errors
	ErrNoQuestions   = errors.New("chapter has no questions")
	ErrLocked        = errors.New("test is locked")
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrInvalidOption = errors.New("invalid option")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
