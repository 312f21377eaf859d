package seed

// smallRNG is a small-state deterministic PRNG (xoshiro256** style, reduced
// to the operations the drawing pipeline needs). It is not cryptographic;
// it exists purely to turn a 64-bit hash into a reproducible stream of
// draws, matching the Rust original's SmallRng.
type smallRNG struct {
	s [4]uint64
}

func newSmallRNG(seed uint64) *smallRNG {
	// splitmix64 to seed the four lanes from a single u64, avoiding an
	// all-zero state.
	r := &smallRNG{}
	sm := seed
	for i := range r.s {
		sm += 0x9E3779B97F4A7C15
		z := sm
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		r.s[i] = z
	}
	return r
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// NextU64 advances the generator and returns the next 64-bit output.
func (r *smallRNG) NextU64() uint64 {
	result := rotl(r.s[1]*5, 7) * 9

	t := r.s[1] << 17
	r.s[2] ^= r.s[0]
	r.s[3] ^= r.s[1]
	r.s[1] ^= r.s[2]
	r.s[0] ^= r.s[3]
	r.s[2] ^= t
	r.s[3] = rotl(r.s[3], 45)

	return result
}

// NextU32 returns the low 32 bits of the next output.
func (r *smallRNG) NextU32() uint32 {
	return uint32(r.NextU64())
}

// Bool draws a uniformly distributed boolean.
func (r *smallRNG) Bool() bool {
	return r.NextU64()&1 == 1
}

// IntRange draws a uniform integer in [lo, hi] inclusive. Behaviour is
// undefined (panics) if hi < lo.
func (r *smallRNG) IntRange(lo, hi int64) int64 {
	span := hi - lo + 1
	if span <= 0 {
		panic("seed: IntRange requires hi >= lo")
	}
	return lo + int64(r.NextU64()%uint64(span))
}

// Range draws a uniform integer in the half-open range [start, end).
// Returns start if the range is empty.
func (r *smallRNG) Range(start, end uint32) uint32 {
	if end <= start {
		return start
	}
	span := uint64(end - start)
	return start + uint32(r.NextU64()%span)
}

// ShuffleIndices returns a slice [0, n) partially Fisher-Yates shuffled so
// that the first k elements are a uniformly random k-subset selection; the
// remaining tail order is unspecified but deterministic given the RNG
// state. This mirrors rand::seq's partial_shuffle used by choose_n.
func (r *smallRNG) ShuffleIndices(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if k > n {
		k = n
	}
	for i := 0; i < k; i++ {
		j := i + int(r.NextU64()%uint64(n-i))
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
