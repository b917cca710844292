package gen

import (
	"sync"

	"github.com/tidwall/btree"

	"extgen/internal/source"
)

// UnitSuffix is appended to the enum name to form the unit name.
const UnitSuffix = "Extension"

// GeneratedUnit is one emitted source text.
type GeneratedUnit struct {
	Name      string
	Text      string
	Enum      string
	Namespace string
	// Origin is the enum declaration the unit was generated from.
	Origin     source.Span
	OriginPath string
}

// Emitter collects units by name. Emitting a name twice keeps the last unit.
// It is safe for concurrent use.
type Emitter struct {
	mu    sync.Mutex
	units btree.Map[string, GeneratedUnit]
}

// NewEmitter returns an empty emitter.
func NewEmitter() *Emitter { return &Emitter{} }

// Emit registers u and reports whether it replaced an earlier unit of the same name.
func (e *Emitter) Emit(u GeneratedUnit) (replaced GeneratedUnit, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.units.Set(u.Name, u)
}

// Get returns the unit called name.
func (e *Emitter) Get(name string) (GeneratedUnit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.units.Get(name)
}

// Len returns the number of units.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.units.Len()
}

// Units returns every unit ordered by name.
func (e *Emitter) Units() []GeneratedUnit {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]GeneratedUnit, 0, e.units.Len())
	e.units.Scan(func(_ string, u GeneratedUnit) bool {
		out = append(out, u)
		return true
	})
	return out
}
