package testutil

import (
	"math/rand"
	"sync"
)

// RNG is a seeded random number generator, safe for concurrent use.
// Fixing the seed makes randomized structure tests reproducible.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// NewRNG creates an RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed)), seed: seed}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a pseudo-random int in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int64 returns a pseudo-random int64.
func (r *RNG) Int64() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(r.rand.Uint64())
}

// Bool returns a pseudo-random bool.
func (r *RNG) Bool() bool {
	return r.Intn(2) == 1
}

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// String returns a pseudo-random string of length [0, maxLen].
// Empty strings come up on purpose; they are an edge case for
// serialized string fields.
func (r *RNG) String(maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.rand.Intn(maxLen + 1)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Bytes returns a pseudo-random byte slice of length [0, maxLen], or
// nil roughly a quarter of the time.
func (r *RNG) Bytes(maxLen int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rand.Intn(4) == 0 {
		return nil
	}
	b := make([]byte, r.rand.Intn(maxLen+1))
	r.rand.Read(b)
	return b
}
