package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the API distinguishes. Callers wrap
// them with context via the helpers below and branch with errors.Is.
var (
	// ErrNotFound covers missing records and records not owned by the
	// requesting user.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers input rejected before any write.
	ErrValidation = errors.New("invalid input")

	// ErrProvider covers question generation that returned nothing usable.
	ErrProvider = errors.New("question provider failure")

	// ErrIntegrity covers broken ownership or uniqueness invariants. These
	// indicate a bug, not a recoverable user-facing case.
	ErrIntegrity = errors.New("integrity violation")

	// ErrUnauthorized covers missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Providerf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProvider, fmt.Sprintf(format, args...))
}

func Integrityf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsProvider(err error) bool     { return errors.Is(err, ErrProvider) }
func IsIntegrity(err error) bool    { return errors.Is(err, ErrIntegrity) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
