package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrPetNotFound
	ErrDuplicatePendingReservation
	ErrSlotFull
	ErrInvalidDate
	ErrStoreUnavailable
	ErrBadRequest
	ErrInternal
)

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func PetNotFound(err error) *AppError {
	return &AppError{
		Code:    ErrPetNotFound,
		Message: "pet not found",
		Err:     err,
	}
}

func DuplicatePendingReservation(err error) *AppError {
	return &AppError{
		Code:    ErrDuplicatePendingReservation,
		Message: "pet already has a pending reservation",
		Err:     err,
	}
}

func SlotFull(date, slot string, err error) *AppError {
	return &AppError{
		Code:    ErrSlotFull,
		Message: fmt.Sprintf("slot %s %s is fully booked", date, slot),
		Err:     err,
	}
}

func InvalidDate(message string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidDate,
		Message: message,
		Err:     err,
	}
}

func StoreUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrStoreUnavailable,
		Message: "reservation store unavailable",
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// CodeOf extracts the error code from an error chain. The second return
// value is false when the chain holds no AppError.
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return 0, false
}

// IsCode reports whether the error chain holds an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}
