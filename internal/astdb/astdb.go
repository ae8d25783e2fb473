package astdb

import (
	"context"
	"sync"

	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lattice-lang/astcore/internal/interner"
)

// ErrUnitCreationFailed and ErrOutOfMemory are the two fatal infra
// failure modes named in §4.2 and §7.
var (
	ErrUnitCreationFailed = errors.New("astdb: unit creation failed")
	ErrOutOfMemory        = errors.New("astdb: out of memory")
)

// contentHashKey is a fixed 32-byte HighwayHash key. The content hash
// need not be cryptographically keyed against an adversary, only stable
// within one process — a fixed key is sufficient and keeps commits
// reproducible across runs for golden tests.
var contentHashKey = make([]byte, 32)

// ContentHash returns the content-addressed key for a Unit: a
// HighwayHash over the filename and source bytes. Two units with
// identical filename and source hash identically.
func ContentHash(filename, source string) [32]byte {
	h, err := highwayhash.New(contentHashKey)
	if err != nil {
		// Only fails if the key length is wrong, which is a programmer
		// error in this package, not a runtime condition callers handle.
		panic(err)
	}
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write([]byte(source))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ASTDB owns a set of Units plus the global Interner and is the
// snapshot factory (§4.2). The Interner and the unit index are the
// shared-mutable structures (§5); mu guards the unit index (unit
// commits are rare relative to reads), and the Interner carries its
// own lock.
type ASTDB struct {
	Interner *interner.Interner

	mu          sync.RWMutex
	byFilename  map[string]UnitId
	units       []*Unit
	contentHash map[UnitId][32]byte
}

// New returns an empty ASTDB with a fresh Interner.
func New() *ASTDB {
	return &ASTDB{
		Interner:    interner.New(),
		byFilename:  make(map[string]UnitId),
		contentHash: make(map[UnitId][32]byte),
	}
}

// AddUnit installs unit under its Filename, atomically (§4.2: a commit
// installs all of a Unit's nodes/edges/diagnostics, or none). If the
// filename is already present, the existing id is returned and the
// existing unit is left untouched (AddUnit is idempotent per filename).
func (db *ASTDB) AddUnit(unit *Unit) UnitId {
	db.mu.Lock()
	defer db.mu.Unlock()

	if id, ok := db.byFilename[unit.Filename]; ok {
		return id
	}

	id := UnitId(len(db.units))
	unit.committed = true
	db.units = append(db.units, unit)
	db.byFilename[unit.Filename] = id
	db.contentHash[id] = ContentHash(unit.Filename, unit.Source)
	return id
}

// GetUnit returns the Unit for id. Panics on an id this ASTDB never
// issued (always a programmer error; ids are opaque but never crafted
// by callers).
func (db *ASTDB) GetUnit(id UnitId) *Unit {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.units[id]
}

// UnitIdByFilename looks up a previously committed unit by filename.
func (db *ASTDB) UnitIdByFilename(filename string) (UnitId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	id, ok := db.byFilename[filename]
	return id, ok
}

// UnitCount reports how many Units have been committed.
func (db *ASTDB) UnitCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.units)
}

// ContentHashOf returns the content-addressed hash computed at commit
// time for id.
func (db *ASTDB) ContentHashOf(id UnitId) [32]byte {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.contentHash[id]
}

// BuildFunc produces a fully-parsed Unit for one (filename, source) pair;
// supplied by the caller (typically the Parser's entry point) so astdb
// itself stays decoupled from the Token Mapper / Parser packages.
type BuildFunc func(filename, source string) (*Unit, error)

// AddUnits builds and commits a batch of (filename, source) pairs
// concurrently: per §5, each Unit's arena is thread-local during
// construction, so the host may parse multiple Units in parallel. One
// goroutine per pending source, fanned in with errgroup; the first
// build error is returned wrapped. The other builds are not cancelled
// (BuildFunc takes no context) and run to completion, but their Units
// are discarded (none are committed) to preserve per-batch atomicity.
func (db *ASTDB) AddUnits(ctx context.Context, sources map[string]string, build BuildFunc) ([]UnitId, error) {
	type built struct {
		filename string
		unit     *Unit
	}
	results := make([]built, len(sources))

	g, _ := errgroup.WithContext(ctx)
	i := 0
	idx := make(map[string]int, len(sources))
	for filename := range sources {
		idx[filename] = i
		i++
	}
	for filename, source := range sources {
		filename, source := filename, source
		slot := idx[filename]
		g.Go(func() error {
			u, err := build(filename, source)
			if err != nil {
				return errors.Wrapf(err, "astdb: building unit %q", filename)
			}
			results[slot] = built{filename: filename, unit: u}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]UnitId, len(results))
	for i, r := range results {
		ids[i] = db.AddUnit(r.unit)
	}
	return ids, nil
}
