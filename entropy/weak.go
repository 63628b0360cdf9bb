package entropy

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/holiman/uint256"
)

// WeakSource derives seeds from the wall clock and a call counter,
// mimicking the original blockhash-style derivation.
//
// INSECURE: anyone who can influence or predict call timing can bias the
// winner. This exists only as a documented test double for exercising
// compatibility paths; production engines use CryptoSource or MiMCSource.
type WeakSource struct {
	now   func() time.Time
	calls uint64
}

// NewWeakSource creates a clock-derived provider.
func NewWeakSource() *WeakSource {
	return &WeakSource{now: time.Now}
}

// NewWeakSourceAt creates a weak provider with a fixed clock, making the
// derivation fully deterministic for tests.
func NewWeakSourceAt(now func() time.Time) *WeakSource {
	return &WeakSource{now: now}
}

// Seed hashes the current time and an incrementing counter.
func (s *WeakSource) Seed() (*uint256.Int, error) {
	s.calls++
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(s.now().UnixNano()))
	binary.BigEndian.PutUint64(buf[8:], s.calls)
	digest := sha256.Sum256(buf[:])
	return new(uint256.Int).SetBytes(digest[:]), nil
}
