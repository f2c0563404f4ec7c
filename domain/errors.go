package domain

import "errors"

// ErrorKind is the machine-readable reason returned to the client alongside
// the admission or cancellation result.
type ErrorKind string

const (
	InvalidDateRange  ErrorKind = "InvalidDateRange"
	RoomMismatch      ErrorKind = "RoomMismatch"
	RoomUnavailable   ErrorKind = "RoomUnavailable"
	OccupancyExceeded ErrorKind = "OccupancyExceeded"
	NotFound          ErrorKind = "NotFound"
	PermissionDenied  ErrorKind = "PermissionDenied"
	AlreadyTerminal   ErrorKind = "AlreadyTerminal"
)

// BookingError carries the kind and a human message. None of these are
// retryable server-side; the client corrects the input or picks other dates.
type BookingError struct {
	Kind    ErrorKind
	Message string
}

func (e *BookingError) Error() string {
	return e.Message
}

func NewBookingError(kind ErrorKind, message string) *BookingError {
	return &BookingError{Kind: kind, Message: message}
}

// KindOf extracts the error kind, or "" when err is an infrastructure
// failure rather than a booking decision.
func KindOf(err error) ErrorKind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func ErrInvalidDateRange(msg string) error {
	return NewBookingError(InvalidDateRange, msg)
}

func ErrRoomMismatch(msg string) error {
	return NewBookingError(RoomMismatch, msg)
}

func ErrRoomUnavailable(msg string) error {
	return NewBookingError(RoomUnavailable, msg)
}

func ErrOccupancyExceeded(msg string) error {
	return NewBookingError(OccupancyExceeded, msg)
}

func ErrNotFound(msg string) error {
	return NewBookingError(NotFound, msg)
}

func ErrPermissionDenied(msg string) error {
	return NewBookingError(PermissionDenied, msg)
}

func ErrAlreadyTerminal(msg string) error {
	return NewBookingError(AlreadyTerminal, msg)
}
