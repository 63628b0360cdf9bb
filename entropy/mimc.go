package entropy

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/holiman/uint256"
)

// MiMCSource derives seeds from caller-supplied commitments with the
// MiMC hash over the BN254 scalar field.
//
// The operator absorbs one commitment per external contribution (for
// example, a hash each entrant published before the event opened) and
// drains them into a single field-element digest at selection time. The
// seed is only as unpredictable as the last honest commitment, which is
// the usual commit-then-draw construction.
type MiMCSource struct {
	hasher   mimcHasher
	absorbed int
}

// mimcHasher is the subset of hash.Hash the source uses.
type mimcHasher interface {
	Write(p []byte) (int, error)
	Sum(b []byte) []byte
	Reset()
}

// NewMiMCSource creates an empty commitment accumulator.
func NewMiMCSource() *MiMCSource {
	return &MiMCSource{hasher: mimc.NewMiMC()}
}

// Commit absorbs one commitment. Arbitrary bytes are reduced into a
// field element before hashing, so any input length is accepted.
func (s *MiMCSource) Commit(data []byte) error {
	var elem fr.Element
	elem.SetBytes(data)
	buf := elem.Bytes()
	if _, err := s.hasher.Write(buf[:]); err != nil {
		return fmt.Errorf("entropy: absorbing commitment: %w", err)
	}
	s.absorbed++
	return nil
}

// Absorbed returns how many commitments are pending in the accumulator.
func (s *MiMCSource) Absorbed() int {
	return s.absorbed
}

// Seed digests the absorbed commitments and resets the accumulator for
// the next event. It fails with ErrNoCommitments if nothing was absorbed
// since the previous Seed call.
func (s *MiMCSource) Seed() (*uint256.Int, error) {
	if s.absorbed == 0 {
		return nil, ErrNoCommitments
	}
	digest := s.hasher.Sum(nil)
	s.hasher.Reset()
	s.absorbed = 0
	return new(uint256.Int).SetBytes(digest), nil
}
