// Package era implements transaction mortality. A mortal transaction is only
// valid within a window of Period blocks starting at its birth block.
package era

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
)

const (
	MinPeriod = 4
	MaxPeriod = 1 << 16

	// quantizeShift bounds the phase to 12 bits, longer periods lose precision.
	quantizeShift = 12
)

var ErrInvalidEra = errors.New("invalid era: period and phase out of range")

// Era is either immortal (the zero value) or mortal with a power of two
// period in [MinPeriod, MaxPeriod] and a phase smaller than the period.
type Era struct {
	Period uint64
	Phase  uint64
}

// Immortal returns the era of transactions that never expire.
func Immortal() Era {
	return Era{}
}

// Mortal creates an era valid for roughly period blocks starting at current.
// The period is rounded up to a power of two and clamped, the phase is
// quantized so that it fits the two byte encoding. Both may therefore differ
// from what was asked for.
func Mortal(period, current uint64) Era {
	period = normalizePeriod(period)
	phase := current % period
	q := quantizeFactor(period)
	return Era{Period: period, Phase: phase / q * q}
}

func normalizePeriod(period uint64) uint64 {
	if period >= MaxPeriod {
		return MaxPeriod
	}
	if period <= MinPeriod {
		return MinPeriod
	}
	return 1 << bits.Len64(period-1)
}

func quantizeFactor(period uint64) uint64 {
	return max(period>>quantizeShift, 1)
}

func (e Era) IsImmortal() bool {
	return e.Period == 0
}

// Birth returns the first block of the window containing current. Immortal
// eras are born at genesis.
func (e Era) Birth(current uint64) uint64 {
	if e.IsImmortal() {
		return 0
	}
	return (max(current, e.Phase)-e.Phase)/e.Period*e.Period + e.Phase
}

// Death returns the first block at which the era is no longer valid.
func (e Era) Death(current uint64) uint64 {
	if e.IsImmortal() {
		return math.MaxUint64
	}
	return e.Birth(current) + e.Period
}

// MarshalSCALE writes a single zero byte for immortal eras. Mortal eras take two
// little endian bytes, the low nibble holds log2(period)-1 and the upper
// twelve bits the quantized phase.
func (e Era) MarshalSCALE() ([]byte, error) {
	if e.IsImmortal() {
		return []byte{0}, nil
	}
	q := quantizeFactor(e.Period)
	low := min(15, max(1, uint64(bits.TrailingZeros64(e.Period))-1))
	encoded := uint16(low | (e.Phase/q)<<4)
	return []byte{byte(encoded), byte(encoded >> 8)}, nil
}

func (e *Era) UnmarshalSCALE(r io.Reader) error {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:1]); err != nil {
		return fmt.Errorf("reading era: %w", err)
	}
	if b[0] == 0 {
		*e = Immortal()
		return nil
	}
	if _, err := io.ReadFull(r, b[1:]); err != nil {
		return fmt.Errorf("reading era: %w", err)
	}

	encoded := uint64(b[0]) | uint64(b[1])<<8
	period := uint64(2) << (encoded % (1 << 4))
	phase := (encoded >> 4) * quantizeFactor(period)
	if period < MinPeriod || phase >= period {
		return ErrInvalidEra
	}

	*e = Era{Period: period, Phase: phase}
	return nil
}

func (e Era) String() string {
	if e.IsImmortal() {
		return "Immortal"
	}
	return fmt.Sprintf("Mortal(%d, %d)", e.Period, e.Phase)
}
