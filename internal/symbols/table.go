package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// SymbolID indexes the symbol table of a model. Zero is never allocated.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// table holds symbols in declaration order; slot 0 stays empty for NoSymbolID.
// Pointers returned by at are invalidated by add.
type table []Symbol

func newTable() table { return make(table, 1, 64) }

func (t *table) add(sym Symbol) SymbolID {
	n, err := safecast.Conv[uint32](len(*t))
	if err != nil {
		panic(fmt.Errorf("symbol table overflow: %w", err))
	}
	sym.ID = SymbolID(n)
	*t = append(*t, sym)
	return sym.ID
}

func (t table) at(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t) {
		return nil
	}
	return &t[id]
}

func (t table) all() []Symbol { return t[1:] }
