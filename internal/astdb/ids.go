// Package astdb implements the ASTDB triad: per-source Units holding
// columnar token/node/edge storage, the ASTDB that owns a set of Units
// plus the global Interner, and Snapshot read views (§3, §4.2).
package astdb

import "github.com/lattice-lang/astcore/internal/interner"

// All identifiers are opaque, monotonically assigned integers; equality
// is integer equality, ordering is insertion order (§3.1).

// StrId is re-exported from interner so astdb callers need not import it
// directly for the common case of holding an interned name.
type StrId = interner.StrId

// TokenId indexes into a Unit's token column.
type TokenId int

// NodeId indexes into a Unit's node column. NodeId is scoped to its
// owning Unit; the same integer value in two different Units refers to
// two different nodes.
type NodeId int

// EdgeIndex indexes into a Unit's edge column.
type EdgeIndex int

// UnitId is a stable handle into an ASTDB's unit table, assigned in
// AddUnit insertion order.
type UnitId int

// DeclId identifies a top-level declaration for the effect-system and
// comptime-VM boundary contracts (§6).
type DeclId int

// TypeId and FunctionId are assigned by the Type Registry and Signature
// Analyzer respectively; astdb only threads them through as opaque
// payload on nodes that need a resolved type attached post-hoc by later
// passes (the parser itself never assigns one).
type TypeId int
type FunctionId int

const NoNodeId NodeId = -1
const NoTokenId TokenId = -1
