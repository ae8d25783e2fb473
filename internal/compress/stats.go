package compress

// Stats reports the Table's compression ratio for diagnostics and the
// round-trip harness that exercises the compressor end to end.
type Stats struct {
	RawEntries     int
	DistinctTypes  int
	DistinctPats   int
	CompressedSize int // approximate bytes: pattern idx + deltas + impl id per entry
	RawSize        int // approximate bytes if every entry stored its full type pattern
}

// Ratio returns CompressedSize / RawSize, or 1.0 if RawSize is zero.
func (s Stats) Ratio() float64 {
	if s.RawSize == 0 {
		return 1
	}
	return float64(s.CompressedSize) / float64(s.RawSize)
}

// ComputeStats sums the Table's footprint against a naive encoding
// where every entry stores its full-width type pattern.
func ComputeStats(table *Table) Stats {
	s := Stats{
		RawEntries:    len(table.Entries),
		DistinctTypes: table.Types.Len(),
		DistinctPats:  table.Patterns.Len(),
	}
	for _, e := range table.Entries {
		s.CompressedSize += 4 + len(e.Deltas)*4 + 4 // pattern idx + deltas + impl id
		s.RawSize += len(e.Deltas)*8 + 4            // full TypeId (8 bytes) per position + impl id
	}
	return s
}
