package booking

import "errors"

var (
	ErrWrongStep          = errors.New("booking: action not allowed at this step")
	ErrIncomplete         = errors.New("booking: current step is incomplete")
	ErrAtFirstStep        = errors.New("booking: already at the first step")
	ErrSubmitInFlight     = errors.New("booking: a submission is already in progress")
	ErrInvalidDate        = errors.New("booking: date must be today or later and not a Sunday")
	ErrInvalidSlot        = errors.New("booking: time is not an offered slot")
	ErrNotesTooLong       = errors.New("booking: notes are too long")
	ErrServiceInactive    = errors.New("booking: service is not available for booking")
	ErrStylistUnavailable = errors.New("booking: stylist is not available")
	ErrSessionNotFound    = errors.New("booking: session not found")
	ErrNotOwner           = errors.New("booking: session belongs to another user")
)
