package ledger

import "errors"

var (
	ErrInvalidAddress        = errors.New("ledger: invalid address")
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
)
