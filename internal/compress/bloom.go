package compress

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// bloomKey is a fixed 32-byte HighwayHash key, analogous to the one
// astdb uses for content hashing; a bloom filter's hash function just
// needs to be fast and well-distributed, not cryptographic.
var bloomKey = make([]byte, 32)

// Bloom is a fixed-size bloom filter over dense type indices, used by
// the decision tree's bloom_filter predicate to cheaply reject a
// dispatch candidate whose argument type provably isn't in some
// pattern's set (§4.12). A positive result may be a false positive;
// a negative result is never a false negative (subset-query
// soundness, testable property 8).
type Bloom struct {
	bits   []uint64
	nHash  int
	nBits  uint64
}

// NewBloom sizes a filter for roughly n elements with k hash rounds.
func NewBloom(n, k int) *Bloom {
	if n < 1 {
		n = 1
	}
	if k < 1 {
		k = 1
	}
	nBits := uint64(n * 10) // ~10 bits/element, a conventional bloom sizing
	words := (nBits + 63) / 64
	if words == 0 {
		words = 1
	}
	return &Bloom{bits: make([]uint64, words), nHash: k, nBits: words * 64}
}

func (b *Bloom) hash(v int, round int) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(v))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(round))
	sum := highwayhash.Sum64(buf[:], bloomKey)
	return sum
}

// Add inserts a dense type index into the filter.
func (b *Bloom) Add(v int) {
	for i := 0; i < b.nHash; i++ {
		pos := b.hash(v, i) % b.nBits
		b.bits[pos/64] |= 1 << (pos % 64)
	}
}

// MayContain reports whether v might be a member. False means v is
// definitely not a member.
func (b *Bloom) MayContain(v int) bool {
	for i := 0; i < b.nHash; i++ {
		pos := b.hash(v, i) % b.nBits
		if b.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}
