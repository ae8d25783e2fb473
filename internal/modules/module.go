// Package modules implements the Module Dispatcher (§4.13): modules
// register exported function families, import signatures from other
// modules, and resolve cross-module calls through qualified names,
// with hot reload swapping a module's exports atomically and a
// consistency checker catching export conflicts after a reload.
package modules

import (
	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/lattice-lang/astcore/internal/dispatch"
)

// MergePolicy controls what happens when an imported name collides
// with one already visible in the importing module (§4.13).
type MergePolicy int

const (
	MergeError MergePolicy = iota
	MergePreferLocal
	MergeCombine // merge: keeps the importer's existing family; the source module's overloads are not added to it
)

// Export is one function family a module makes visible to importers.
type Export struct {
	Name   string
	Family *dispatch.FunctionFamily
}

// Module is one unit of registration in the dispatcher: a named,
// versioned collection of exported function families. Generation is
// bumped, and a fresh UUID assigned, on every hot reload so importers
// can detect they're holding a stale reference.
type Module struct {
	Path       string
	Version    string // semver, e.g. "v1.2.0"
	Generation uuid.UUID
	Exports    map[string]*Export
	Imports    map[string]string // local alias -> imported module path
	Grafts     map[string]string // local alias -> native/FFI module path, from a `use zig`/graft form
}

func newModule(path, version string) *Module {
	return &Module{
		Path:       path,
		Version:    version,
		Generation: uuid.New(),
		Exports:    make(map[string]*Export),
		Imports:    make(map[string]string),
		Grafts:     make(map[string]string),
	}
}

// VersionLess reports whether a's version sorts before b's version
// under semver ordering; an invalid version always sorts last.
func VersionLess(a, b string) bool {
	if !semver.IsValid(a) {
		return false
	}
	if !semver.IsValid(b) {
		return true
	}
	return semver.Compare(a, b) < 0
}
