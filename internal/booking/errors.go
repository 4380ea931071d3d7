package booking

import "errors"

var (
	// ErrMissingInformation is returned when submit finds an unset required field
	ErrMissingInformation = errors.New("missing information")

	// ErrDateUnavailable is returned for past dates and weekends
	ErrDateUnavailable = errors.New("date is not available for booking")

	// ErrInvalidDate is returned when a date cannot be parsed
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

	// ErrUnknownTimeSlot is returned for a slot outside the fixed list
	ErrUnknownTimeSlot = errors.New("unknown time slot")

	// ErrUnknownPaymentMethod is returned for a payment method outside the enum
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrFormClosed is returned when a confirmed form is edited or submitted again
	ErrFormClosed = errors.New("booking already confirmed")

	// ErrCompletionFailed wraps a failing completion callback
	ErrCompletionFailed = errors.New("booking could not be completed")

	// ErrDraftNotFound is returned when a draft id is unknown or owned by someone else
	ErrDraftNotFound = errors.New("booking draft not found")
)
