package modules

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/utils"
)

// Dispatcher owns every registered Module, keyed by import path, and
// the cross-module resolution machinery (§4.13). Each Module is held
// behind an atomic.Pointer so hot reload can swap it in without
// blocking concurrent qualified-call resolution: readers load the
// pointer without a lock, writers install a whole new Module rather
// than mutating one in place.
type Dispatcher struct {
	mu      sync.RWMutex
	modules map[string]*atomic.Pointer[Module]

	// processing tracks in-flight module paths, guarding RegisterModule
	// against import cycles.
	processing map[string]bool
}

// NewDispatcher returns an empty Module Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		modules:    make(map[string]*atomic.Pointer[Module]),
		processing: make(map[string]bool),
	}
}

// ErrCircularImport reports an import cycle detected during
// registration.
type ErrCircularImport struct{ Path string }

func (e *ErrCircularImport) Error() string {
	return fmt.Sprintf("modules: circular import involving %q", e.Path)
}

// ErrExportConflict reports two modules claiming the same export name
// under a merge policy that forbids it.
type ErrExportConflict struct {
	Module string
	Name   string
}

func (e *ErrExportConflict) Error() string {
	return fmt.Sprintf("modules: %s: export %q conflicts with an existing import", e.Module, e.Name)
}

// RegisterModule creates (or, on a later call for the same path,
// replaces) a module's registration at version. Re-registering a path
// already under registration (module A imports B which imports A) is
// reported as a circular import rather than deadlocking.
func (d *Dispatcher) RegisterModule(path, version string) (*Module, error) {
	d.mu.Lock()
	if d.processing[path] {
		d.mu.Unlock()
		return nil, &ErrCircularImport{Path: path}
	}
	d.processing[path] = true
	ptr, existed := d.modules[path]
	if !existed {
		ptr = &atomic.Pointer[Module]{}
		d.modules[path] = ptr
	}
	d.mu.Unlock()

	mod := newModule(path, version)
	ptr.Store(mod)

	d.mu.Lock()
	delete(d.processing, path)
	d.mu.Unlock()

	return mod, nil
}

// GetModule returns the currently live Module for path.
func (d *Dispatcher) GetModule(path string) (*Module, bool) {
	d.mu.RLock()
	ptr, ok := d.modules[path]
	d.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return ptr.Load(), true
}

// ExportSignature publishes name as an export of the module at path,
// bound to fam.
func (d *Dispatcher) ExportSignature(path, name string, fam *dispatch.FunctionFamily) error {
	mod, ok := d.GetModule(path)
	if !ok {
		return fmt.Errorf("modules: %s: not registered", path)
	}
	mod.Exports[name] = &Export{Name: name, Family: fam}
	return nil
}

// ImportSignature resolves name from the module at fromPath into
// intoPath's namespace under localAlias, applying policy on conflict.
func (d *Dispatcher) ImportSignature(intoPath, fromPath, name, localAlias string, policy MergePolicy) (*dispatch.FunctionFamily, error) {
	src, ok := d.GetModule(fromPath)
	if !ok {
		return nil, fmt.Errorf("modules: %s: not registered", fromPath)
	}
	exp, ok := src.Exports[name]
	if !ok {
		return nil, fmt.Errorf("modules: %s: %q is not exported", fromPath, name)
	}

	into, ok := d.GetModule(intoPath)
	if !ok {
		return nil, fmt.Errorf("modules: %s: not registered", intoPath)
	}

	if existing, ok := into.Exports[localAlias]; ok {
		switch policy {
		case MergeError:
			return nil, &ErrExportConflict{Module: intoPath, Name: localAlias}
		case MergePreferLocal:
			return existing.Family, nil
		case MergeCombine:
			merged := mergeFamilies(existing.Family, exp.Family)
			into.Exports[localAlias] = &Export{Name: localAlias, Family: merged}
			return merged, nil
		}
	}

	into.Imports[localAlias] = fromPath
	return exp.Family, nil
}

// RegisterGraft records a native-module import (a `use zig "path"` or
// `use alias = origin "path"` / `use origin "path"` graft) under alias
// in the module at intoPath. The native path is itself registered as a
// module, un-versioned, so it shows up in consistency checks the same
// way an ordinary import's source module does; grafts never carry
// FunctionFamily exports of their own, since an FFI boundary's
// signatures aren't analyzed the way in-language declarations are.
func (d *Dispatcher) RegisterGraft(intoPath, alias, nativePath string) error {
	into, ok := d.GetModule(intoPath)
	if !ok {
		return fmt.Errorf("modules: %s: not registered", intoPath)
	}
	if _, ok := d.GetModule(nativePath); !ok {
		if _, err := d.RegisterModule(nativePath, "native"); err != nil {
			return err
		}
	}
	into.Grafts[alias] = nativePath
	return nil
}

// CreateQualifiedCall resolves name as exported by the module at path
// exactly (no import-table fallthrough), for a qualified call `M.f(...)`
// (§ Qualification: a qualified call selects only implementations M
// itself exports). A grafted native module rarely exports under the
// call's bare name, so a miss falls back to the
// ModuleMemberFallbackName convention, applied to the path's base name
// without its extension (e.g. `json.parse` on "vendor/json.zig" falling
// back to an export literally named "jsonParse") before giving up. If both
// the bare name and the fallback name are independently exported to
// different families, that is a genuine ambiguity: errorOnAmbiguity
// decides whether that's reported or silently resolved in favor of
// the bare name.
func (d *Dispatcher) CreateQualifiedCall(path, name string, errorOnAmbiguity bool) (*dispatch.FunctionFamily, error) {
	mod, ok := d.GetModule(path)
	if !ok {
		return nil, fmt.Errorf("modules: %s: not registered", path)
	}

	direct, hasDirect := mod.Exports[name]
	base := filepath.Base(path)
	memberModule := strings.TrimSuffix(base, filepath.Ext(base))
	fallback, hasFallback := mod.Exports[utils.ModuleMemberFallbackName(memberModule, name)]

	switch {
	case hasDirect && hasFallback && direct.Family != fallback.Family:
		if errorOnAmbiguity {
			return nil, &ErrExportConflict{Module: path, Name: name}
		}
		return direct.Family, nil
	case hasDirect:
		return direct.Family, nil
	case hasFallback:
		return fallback.Family, nil
	default:
		return nil, fmt.Errorf("modules: %s: %q is not exported", path, name)
	}
}

func mergeFamilies(a, b *dispatch.FunctionFamily) *dispatch.FunctionFamily {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	// b's implementations are not added to a: the combine policy keeps
	// the importer's existing family under the alias unchanged.
	return a
}

// ResolveCrossModuleDispatch resolves name as seen from withinPath,
// following an explicit qualifier (another module's path) when given,
// or the local module's own exports and imports otherwise.
func (d *Dispatcher) ResolveCrossModuleDispatch(withinPath, qualifier, name string) (*dispatch.FunctionFamily, error) {
	lookIn := withinPath
	if qualifier != "" {
		lookIn = qualifier
	}
	mod, ok := d.GetModule(lookIn)
	if !ok {
		return nil, fmt.Errorf("modules: %s: not registered", lookIn)
	}
	if exp, ok := mod.Exports[name]; ok {
		return exp.Family, nil
	}
	if qualifier == "" {
		if from, ok := mod.Imports[name]; ok {
			return d.ResolveCrossModuleDispatch(from, "", name)
		}
	}
	return nil, fmt.Errorf("modules: %s: %q is not visible", lookIn, name)
}

// HotReloadModule atomically replaces the module at path with a freshly
// constructed one at newVersion, bumping its Generation so any holder
// of the old *Module can detect staleness by comparing Generation.
// reexport is invoked with the outgoing module so the caller can copy
// forward whichever exports should survive the reload.
func (d *Dispatcher) HotReloadModule(path, newVersion string, reexport func(old, fresh *Module)) (*Module, error) {
	d.mu.RLock()
	ptr, ok := d.modules[path]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("modules: %s: not registered", path)
	}

	old := ptr.Load()
	fresh := newModule(path, newVersion)
	if reexport != nil {
		reexport(old, fresh)
	}
	ptr.Store(fresh)
	return fresh, nil
}

// CheckDispatchConsistency reports the import aliases of the module at
// path whose source module is no longer registered or no longer exports
// that alias (as after a hot reload that dropped or renamed an export),
// plus the graft aliases whose native module is not registered. It does
// not compare which FunctionFamily a name resolves to before and after
// a reload.
func (d *Dispatcher) CheckDispatchConsistency(path string) []string {
	mod, ok := d.GetModule(path)
	if !ok {
		return nil
	}
	var inconsistent []string
	for alias, from := range mod.Imports {
		src, ok := d.GetModule(from)
		if !ok {
			inconsistent = append(inconsistent, alias)
			continue
		}
		if _, ok := src.Exports[alias]; !ok {
			inconsistent = append(inconsistent, alias)
		}
	}
	for alias, nativePath := range mod.Grafts {
		if _, ok := d.GetModule(nativePath); !ok {
			inconsistent = append(inconsistent, alias)
		}
	}
	return inconsistent
}
