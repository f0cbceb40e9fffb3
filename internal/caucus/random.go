package caucus

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource is the only source of randomness used by generation and
// regeneration. Implementations return floats in [0, 1).
type RandomSource interface {
	NextFloat() float64
}

// Index returns floor(src.NextFloat() * n), clamped to [0, n).
//
// Precondition: n > 0.
func Index(src RandomSource, n int) int {
	i := int(src.NextFloat() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// seededSource is a reproducible source backed by a PCG generator.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a RandomSource that yields the same sequence for
// the same seed.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) NextFloat() float64 {
	return s.rng.Float64()
}

// cryptoSource draws from crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a RandomSource backed by crypto/rand.
func NewCryptoSource() RandomSource {
	return cryptoSource{}
}

// NextFloat uses the top 53 bits of a random uint64. Panics if crypto/rand fails.
func (cryptoSource) NextFloat() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("caucus: crypto/rand failure: " + err.Error())
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// SequenceSource replays a pre-recorded list of floats, cycling when it runs
// out. An empty sequence always yields 0.
type SequenceSource struct {
	values []float64
	pos    int
}

// NewSequenceSource returns a SequenceSource over values.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: append([]float64(nil), values...)}
}

// NextFloat returns the next recorded value.
func (s *SequenceSource) NextFloat() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Calls returns how many values have been drawn.
func (s *SequenceSource) Calls() int {
	return s.pos
}
