package services

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Error kinds. Every failure a service returns on purpose wraps one of these;
// anything else is an internal (store) failure.
var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrDuplicateRequest = errors.New("you already have a pending vendor request")
	ErrAlreadyApproved  = errors.New("your vendor request has already been approved")
	ErrCooldownActive   = errors.New("vendor request cooldown active")
)

// Error pairs a kind with a message that is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}

func notFound(format string, args ...any) *Error {
	return newError(ErrNotFound, format, args...)
}

func permissionDenied(format string, args ...any) *Error {
	return newError(ErrPermissionDenied, format, args...)
}

// CooldownError is returned when a rejected vendor request is resubmitted
// before its cooldown deadline.
type CooldownError struct {
	Until          time.Time
	RemainingHours int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("Your previous request was rejected. You can request again in %d hours.", e.RemainingHours)
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

func newCooldownError(until, now time.Time) *CooldownError {
	remaining := until.Sub(now)
	return &CooldownError{
		Until:          until,
		RemainingHours: int(math.Ceil(float64(remaining.Milliseconds()) / float64(time.Hour.Milliseconds()))),
	}
}
