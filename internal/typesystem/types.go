// Package typesystem implements the Type Registry (§4.5) and Conversion
// Registry (§4.8): type identities with an append-only
// subtype lattice, and a directed conversion multigraph with cached
// minimum-cost path lookup.
package typesystem

import "github.com/lattice-lang/astcore/internal/interner"

// TypeId is assigned by the registry in registration order.
type TypeId int

// Kind partitions what a TypeId denotes (§3.6).
type Kind int

const (
	KindPrimitive Kind = iota
	KindStruct
	KindEnum
	KindUnion
	KindOpen
	KindGenericParam
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindOpen:
		return "open"
	case KindGenericParam:
		return "generic_param"
	default:
		return "unknown"
	}
}

// TypeInfo is the registry's record for one TypeId (§3.6).
type TypeInfo struct {
	ID        TypeId
	Name      interner.StrId
	Kind      Kind
	SubtypeOf []TypeId
}
