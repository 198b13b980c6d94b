package bookings

import "errors"

var (
	ErrBookingNotFound   = errors.New("bookings: booking not found")
	ErrGroupNotFound     = errors.New("bookings: recurring group not found")
	ErrAccessDenied      = errors.New("bookings: access denied")
	ErrInvalidInput      = errors.New("bookings: invalid input")
	ErrInvalidTransition = errors.New("bookings: invalid transition")
	ErrAlreadyArchived   = errors.New("bookings: booking already archived")
	ErrInternal          = errors.New("bookings: internal error")
)
