// Package safemath provides overflow-checked arithmetic over 256-bit
// unsigned integers.
//
// Every ledger and raffle computation on balances, supply, and allowances
// routes through these operations. Raw arithmetic on monetary quantities
// is not permitted anywhere else in the module.
package safemath

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow       = errors.New("safemath: overflow")
	ErrUnderflow      = errors.New("safemath: underflow")
	ErrDivisionByZero = errors.New("safemath: division by zero")
)

// Add returns a+b, or ErrOverflow if the sum exceeds the 256-bit domain.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrUnderflow if b > a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return diff, nil
}

// Mul returns a*b, or ErrOverflow if the product exceeds the 256-bit
// domain. A zero multiplicand short-circuits to zero.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	if a.IsZero() {
		return new(uint256.Int), nil
	}
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return product, nil
}

// Div returns the truncated quotient a/b, or ErrDivisionByZero if b == 0.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(a, b), nil
}

// Mod returns a mod b, or ErrDivisionByZero if b == 0.
func Mod(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Mod(a, b), nil
}
