// Package compress implements the Dispatch Compressor (§4.12): once a
// module's dispatch table is finalized, its entries are compacted into
// a frequency-sorted type dictionary, a deduplicated pattern
// dictionary, delta-encoded entries against each pattern's base, a
// bloom filter for fast subset membership, and a decision-tree lookup
// structure — the same kind of space/lookup tradeoff a compiled
// regular-expression engine or a protocol dictionary codec makes.
package compress

import (
	"sort"

	"github.com/lattice-lang/astcore/internal/typesystem"
)

// Entry is one row of an uncompressed dispatch table: a parameter type
// pattern mapped to the Implementation it resolves to.
type Entry struct {
	Pattern []typesystem.TypeId
	ImplID  int
}

// TypeDictionary assigns dense, frequency-ordered indices to the
// TypeIds that actually appear in a dispatch table, so common types
// encode in fewer bits than the sparse TypeId space would need.
type TypeDictionary struct {
	byType  map[typesystem.TypeId]int
	byIndex []typesystem.TypeId
}

// BuildTypeDictionary scans entries and assigns index 0 to the most
// frequently occurring TypeId, index 1 to the next, and so on; ties
// break by the TypeId's own numeric value for determinism.
func BuildTypeDictionary(entries []Entry) *TypeDictionary {
	freq := make(map[typesystem.TypeId]int)
	for _, e := range entries {
		for _, t := range e.Pattern {
			freq[t]++
		}
	}
	types := make([]typesystem.TypeId, 0, len(freq))
	for t := range freq {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if freq[types[i]] != freq[types[j]] {
			return freq[types[i]] > freq[types[j]]
		}
		return types[i] < types[j]
	})

	d := &TypeDictionary{byType: make(map[typesystem.TypeId]int, len(types)), byIndex: types}
	for i, t := range types {
		d.byType[t] = i
	}
	return d
}

// Encode returns the dense index for t.
func (d *TypeDictionary) Encode(t typesystem.TypeId) (int, bool) {
	idx, ok := d.byType[t]
	return idx, ok
}

// Decode returns the TypeId stored at dense index idx.
func (d *TypeDictionary) Decode(idx int) typesystem.TypeId {
	return d.byIndex[idx]
}

// Len reports how many distinct types the dictionary holds.
func (d *TypeDictionary) Len() int {
	return len(d.byIndex)
}

// PatternDictionary deduplicates identical parameter-type patterns
// across a dispatch table's entries, since overloaded families
// frequently repeat the same shape (e.g. many (Int, Int) overloads
// across different modules).
type PatternDictionary struct {
	patterns []string // dictionary-encoded pattern, joined for map-keying
	indexOf  map[string]int
	decoded  [][]int
}

// NewPatternDictionary returns an empty dictionary.
func NewPatternDictionary() *PatternDictionary {
	return &PatternDictionary{indexOf: make(map[string]int)}
}

// Intern returns the dictionary-encoded pattern's index, adding it if
// this exact sequence of dense type indices hasn't been seen before.
func (p *PatternDictionary) Intern(encoded []int) int {
	key := keyOf(encoded)
	if idx, ok := p.indexOf[key]; ok {
		return idx
	}
	idx := len(p.patterns)
	p.patterns = append(p.patterns, key)
	p.decoded = append(p.decoded, append([]int(nil), encoded...))
	p.indexOf[key] = idx
	return idx
}

// Pattern returns the dense-index sequence stored at idx.
func (p *PatternDictionary) Pattern(idx int) []int {
	return p.decoded[idx]
}

// Len reports how many distinct patterns are interned.
func (p *PatternDictionary) Len() int {
	return len(p.patterns)
}

func keyOf(encoded []int) string {
	b := make([]byte, 0, len(encoded)*5)
	for _, v := range encoded {
		b = appendVarint(b, v)
	}
	return string(b)
}

func appendVarint(b []byte, v int) []byte {
	u := uint32(v)
	for u >= 0x80 {
		b = append(b, byte(u)|0x80)
		u >>= 7
	}
	return append(b, byte(u))
}
