package raffle

import "errors"

var (
	ErrEventNotOpen             = errors.New("raffle: event not open")
	ErrAlreadyOpen              = errors.New("raffle: event already open")
	ErrAlreadyEntered           = errors.New("raffle: already entered")
	ErrInsufficientParticipants = errors.New("raffle: insufficient participants")
)
