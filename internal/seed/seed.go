// Package seed implements deterministic RNG derivation: a map seed plus a
// structured call-site address (step, screen position, layer, tile index)
// is hashed down to a u64 that seeds a small-state PRNG. Identical inputs
// must always produce identical draws — this is a stability contract, not
// an implementation detail (see SPEC_FULL.md's Open Question on hash
// choice).
package seed

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
	"strconv"

	"github.com/spindlymist/ksrender/internal/model"
)

// RngStep discriminates the logical call site of an RNG derivation.
// These values are a stability contract: do not renumber or remove any of
// them, even unused ones, and append new steps at the end.
type RngStep uint8

const (
	StepDefault RngStep = iota
	StepScreenAnimationTime
	StepGroupAnimationTime
	StepLaserPhases
	StepLimiters
	StepFrame
	StepOffset
	StepFlip
	StepAlpha
	StepElementalVariant
)

// MapSeed is the 64-bit root of every deterministic draw in a render.
type MapSeed struct {
	Value uint64
}

// Random draws a MapSeed from the platform RNG. Only used when the caller
// does not supply a seed explicitly; the resulting render is not
// reproducible across invocations unless the chosen seed is recorded.
func Random() MapSeed {
	return MapSeed{Value: mrand.Uint64()}
}

// String renders the seed as 16 uppercase hex digits, zero-padded.
func (s MapSeed) String() string {
	return fmt.Sprintf("%016X", s.Value)
}

// Parse reads 1-16 hex digits into a MapSeed.
func Parse(s string) (MapSeed, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return MapSeed{}, fmt.Errorf("seed: invalid hex seed %q: %w", s, err)
	}
	return MapSeed{Value: v}, nil
}

// Hasher returns a new SeedHasher seeded from this map seed and the given
// step discriminant. Every RNG draw in the drawing pipeline must derive
// from a hasher constructed with the step, screen position, layer index,
// and within-layer tile index written in that order.
func (s MapSeed) Hasher(step RngStep) *SeedHasher {
	h := fnv.New64a()
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], s.Value)
	h.Write(seedBytes[:])
	h.Write([]byte{byte(step)})
	return &SeedHasher{h: h}
}

// SeedHasher accumulates a structured address into a stable hash. Write*
// methods return the receiver to allow fluent chaining, mirroring the
// Rust original's consuming-builder style.
type SeedHasher struct {
	h interface {
		Write([]byte) (int, error)
		Sum64() uint64
	}
}

func (s *SeedHasher) WriteUint8(v uint8) *SeedHasher {
	s.h.Write([]byte{v})
	return s
}

func (s *SeedHasher) WriteUint32(v uint32) *SeedHasher {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.h.Write(b[:])
	return s
}

func (s *SeedHasher) WriteInt32(v int32) *SeedHasher {
	return s.WriteUint32(uint32(v))
}

func (s *SeedHasher) WriteUint64(v uint64) *SeedHasher {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.h.Write(b[:])
	return s
}

func (s *SeedHasher) WriteInt64(v int64) *SeedHasher {
	return s.WriteUint64(uint64(v))
}

// WriteCoord mixes in a screen coordinate (x then y).
func (s *SeedHasher) WriteCoord(c model.ScreenCoord) *SeedHasher {
	return s.WriteInt32(c.X).WriteInt32(c.Y)
}

// WriteLayer mixes in a layer index.
func (s *SeedHasher) WriteLayer(layer int) *SeedHasher {
	return s.WriteUint8(uint8(layer))
}

// WriteIndex mixes in a within-layer tile index (0..250).
func (s *SeedHasher) WriteIndex(i int) *SeedHasher {
	return s.WriteUint32(uint32(i))
}

// WriteTile mixes in a (bank, index) tile.
func (s *SeedHasher) WriteTile(t model.Tile) *SeedHasher {
	return s.WriteUint8(t.Bank).WriteUint8(t.Index)
}

// WriteBytes mixes in arbitrary bytes, e.g. a pre-serialised composite key.
func (s *SeedHasher) WriteBytes(b []byte) *SeedHasher {
	s.h.Write(b)
	return s
}

// IntoRNG finalises the hash and seeds a small-state deterministic PRNG.
func (s *SeedHasher) IntoRNG() *smallRNG {
	return newSmallRNG(s.h.Sum64())
}

// NextU32 finalises the hasher and draws one u32.
func (s *SeedHasher) NextU32() uint32 {
	return s.IntoRNG().NextU32()
}

// NextU64 finalises the hasher and draws one u64.
func (s *SeedHasher) NextU64() uint64 {
	return s.IntoRNG().NextU64()
}

// Bool finalises the hasher and draws one boolean.
func (s *SeedHasher) Bool() bool {
	return s.IntoRNG().Bool()
}

// Range finalises the hasher and draws a uniform value in [start, end).
func (s *SeedHasher) Range(start, end uint32) uint32 {
	return s.IntoRNG().Range(start, end)
}

// IntRange finalises the hasher and draws a uniform value in [lo, hi]
// inclusive.
func (s *SeedHasher) IntRange(lo, hi int64) int64 {
	return s.IntoRNG().IntRange(lo, hi)
}

// ShuffleIndices finalises the hasher and returns a partial Fisher-Yates
// shuffle selecting k of [0, n).
func (s *SeedHasher) ShuffleIndices(n, k int) []int {
	return s.IntoRNG().ShuffleIndices(n, k)
}
