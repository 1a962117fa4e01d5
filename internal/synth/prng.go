package synth

// Seed derivation and the pseudo-random stream behind every synthetic
// series. Both are fixed algorithms: data for a given symbol must be
// reproducible across processes, so math/rand is not an option here.

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Hash folds s into a 32-bit seed using FNV-1a. The empty string hashes
// to the offset basis.
func Hash(s string) uint32 {
	h := fnvOffsetBasis
	for _, r := range s {
		h ^= uint32(r)
		h *= fnvPrime
	}
	return h
}

// Rand is a mulberry32 stream. Two instances built from the same seed
// produce identical sequences; every call advances the state.
type Rand struct {
	state uint32
}

// NewRand creates a stream seeded with seed.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// NewKeyed creates a stream seeded from Hash(symbol + "|" + purpose),
// so different data kinds for the same symbol are independent streams.
func NewKeyed(symbol, purpose string) *Rand {
	return NewRand(Hash(symbol + "|" + purpose))
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296.0
}

// Between returns the next value in [min, max).
func (r *Rand) Between(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
