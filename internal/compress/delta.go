package compress

import "github.com/lattice-lang/astcore/internal/typesystem"

// DeltaEntry is one dispatch table row encoded against its pattern's
// base: rather than storing every entry's full dense-index pattern,
// each entry stores the pattern dictionary index plus the signed
// per-position delta from that pattern's canonical base (usually zero,
// since most entries of a pattern ARE the base — deltas only appear
// where a specific Implementation narrows one position further, e.g. a
// generic (T, T) pattern specialized to (Int, T)).
type DeltaEntry struct {
	PatternIdx int
	Deltas     []int32
	ImplID     int
}

// Table is the fully compressed dispatch table for one module: a type
// dictionary, a pattern dictionary, the delta-encoded entries
// referencing both, and a bloom filter over every dense type index
// that appears in position 0 across those entries, letting a decision
// tree reject a candidate whose leading argument type is provably
// absent without walking the TypeEquals chain at all (§4.12 step 4).
type Table struct {
	Types    *TypeDictionary
	Patterns *PatternDictionary
	Entries  []DeltaEntry
	Bloom    *Bloom
}

// Build compresses entries into a Table. The pattern dictionary's base
// for a given interned pattern is simply the first encoding seen for
// it; every subsequent entry with the same dense-index pattern deltas
// to all zero, and only entries whose raw pattern drifts from that
// base (not possible from BuildTypeDictionary+Intern alone, but kept
// general for patterns assembled by callers that hand-merge entries)
// carry nonzero deltas.
func Build(entries []Entry) *Table {
	types := BuildTypeDictionary(entries)
	patterns := NewPatternDictionary()

	out := make([]DeltaEntry, 0, len(entries))
	baseOf := make(map[int][]int)
	for _, e := range entries {
		encoded := make([]int, len(e.Pattern))
		for i, t := range e.Pattern {
			idx, ok := types.Encode(t)
			if !ok {
				panic("compress: entry references a type absent from the dictionary")
			}
			encoded[i] = idx
		}
		idx := patterns.Intern(encoded)
		base, ok := baseOf[idx]
		if !ok {
			base = encoded
			baseOf[idx] = base
		}
		deltas := make([]int32, len(encoded))
		for i := range encoded {
			deltas[i] = int32(encoded[i] - base[i])
		}
		out = append(out, DeltaEntry{PatternIdx: idx, Deltas: deltas, ImplID: e.ImplID})
	}

	return &Table{Types: types, Patterns: patterns, Entries: out, Bloom: buildPositionZeroBloom(out, patterns)}
}

// bloomHashRounds is the conventional 3 hash rounds for a filter sized
// at ~10 bits/element, balancing false-positive rate against lookup
// cost.
const bloomHashRounds = 3

// buildPositionZeroBloom inserts every distinct dense type index seen
// at pattern position 0 across entries, so BuildLinearDecisionTree can
// guard its TypeEquals chain with a single cheap MayContain check.
func buildPositionZeroBloom(entries []DeltaEntry, patterns *PatternDictionary) *Bloom {
	seen := make(map[int]bool)
	for _, e := range entries {
		pattern := patterns.Pattern(e.PatternIdx)
		if len(pattern) == 0 {
			continue
		}
		seen[pattern[0]+int(e.Deltas[0])] = true
	}
	b := NewBloom(len(seen), bloomHashRounds)
	for v := range seen {
		b.Add(v)
	}
	return b
}

// Decode reconstructs the original Entry for a DeltaEntry, recovering
// each position as the pattern's base plus the stored delta. This must
// round-trip exactly for every entry Build produced (§4.12 testable
// property 7).
func (t *Table) Decode(d DeltaEntry) Entry {
	base := t.Patterns.Pattern(d.PatternIdx)
	pattern := make([]typesystem.TypeId, len(base))
	for i := range base {
		denseIdx := base[i] + int(d.Deltas[i])
		pattern[i] = t.Types.Decode(denseIdx)
	}
	return Entry{Pattern: pattern, ImplID: d.ImplID}
}
