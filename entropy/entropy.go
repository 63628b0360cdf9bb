// Package entropy supplies the per-event seed values the raffle engine
// uses to select winners.
//
// The original system derived its winner index from miner-influenced
// block values, which is manipulable by whoever controls block
// production. That method is deliberately not reproduced here: the
// engine consumes an injected Provider, the default provider draws from
// the operating system's CSPRNG, and the weak derivation survives only
// as the clearly labeled WeakSource test double.
package entropy

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrNoCommitments is returned by commitment-based providers when a seed
// is requested before anything was absorbed.
var ErrNoCommitments = errors.New("entropy: no commitments absorbed")

// Provider supplies one seed value per winner-selection call.
// Implementations need not be deterministic; the engine reduces the seed
// modulo the participant count.
type Provider interface {
	Seed() (*uint256.Int, error)
}

// CryptoSource draws 256-bit seeds from crypto/rand. It is the default
// provider.
type CryptoSource struct{}

// NewCryptoSource creates a CSPRNG-backed provider.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Seed returns a fresh random 256-bit value.
func (s *CryptoSource) Seed() (*uint256.Int, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("entropy: reading random bytes: %w", err)
	}
	return new(uint256.Int).SetBytes(buf[:]), nil
}

// Fixed always returns the same seed. Tests use it to force a known
// winner index.
type Fixed struct {
	Value *uint256.Int
}

// NewFixed creates a provider that always returns v.
func NewFixed(v uint64) *Fixed {
	return &Fixed{Value: uint256.NewInt(v)}
}

// Seed returns the configured value.
func (f *Fixed) Seed() (*uint256.Int, error) {
	if f.Value == nil {
		return new(uint256.Int), nil
	}
	return f.Value.Clone(), nil
}
