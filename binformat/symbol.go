package binformat

import (
	"fmt"
	"sync"
)

type SymbolKind string

const (
	// An address-sized slot in the GOT section, filled in by the loader.
	GotSlotSymbol = SymbolKind("got-slot")

	// A method entry inside the code section.
	TextSymbol = SymbolKind("text")
)

// Symbol is a named handle into a section.  Symbols are owned by the symbol
// table; pointer equality is symbol identity.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Section *Section
	Offset  int
	Size    int

	index int // position in creation order
}

func (symbol *Symbol) Index() int {
	return symbol.index
}

func (symbol *Symbol) String() string {
	return fmt.Sprintf(
		"%s(%s, %s+%d)",
		symbol.Name,
		symbol.Kind,
		symbol.Section.Name,
		symbol.Offset)
}

// SymbolTable owns the container's symbol namespace.
type SymbolTable struct {
	got      *Section
	slotSize int

	mutex   sync.Mutex
	symbols map[string]*Symbol
	ordered []*Symbol
}

func NewSymbolTable(got *Section, slotSize int) *SymbolTable {
	return &SymbolTable{
		got:      got,
		slotSize: slotSize,
		symbols:  map[string]*Symbol{},
	}
}

func (table *SymbolTable) Len() int {
	table.mutex.Lock()
	defer table.mutex.Unlock()

	return len(table.ordered)
}

// Symbols returns all symbols in creation order.
func (table *SymbolTable) Symbols() []*Symbol {
	table.mutex.Lock()
	defer table.mutex.Unlock()

	result := make([]*Symbol, len(table.ordered))
	copy(result, table.ordered)
	return result
}

func (table *SymbolTable) Lookup(name string) (*Symbol, bool) {
	table.mutex.Lock()
	defer table.mutex.Unlock()

	symbol, ok := table.symbols[name]
	return symbol, ok
}

func (table *SymbolTable) register(symbol *Symbol) *Symbol {
	symbol.index = len(table.ordered)
	table.symbols[symbol.Name] = symbol
	table.ordered = append(table.ordered, symbol)
	return symbol
}

func (table *SymbolTable) existing(name string, kind SymbolKind) *Symbol {
	symbol, ok := table.symbols[name]
	if !ok {
		return nil
	}

	if symbol.Kind != kind {
		panic(fmt.Sprintf(
			"symbol (%s) redefined as %s, previously %s",
			name,
			kind,
			symbol.Kind))
	}
	return symbol
}

// GetOrCreateGotSymbol returns the GOT slot symbol for name, allocating the
// next free slot on first use.
func (table *SymbolTable) GetOrCreateGotSymbol(name string) *Symbol {
	table.mutex.Lock()
	defer table.mutex.Unlock()

	symbol := table.existing(name, GotSlotSymbol)
	if symbol != nil {
		return symbol
	}

	offset := table.got.AppendZeros(table.slotSize, table.slotSize)
	return table.register(&Symbol{
		Name:    name,
		Kind:    GotSlotSymbol,
		Section: table.got,
		Offset:  offset,
		Size:    table.slotSize,
	})
}

// DefineTextSymbol defines a method entry.  Text symbols are defined exactly
// once.
func (table *SymbolTable) DefineTextSymbol(
	name string,
	code *Section,
	offset int,
	size int,
) (
	*Symbol,
	error,
) {
	table.mutex.Lock()
	defer table.mutex.Unlock()

	prev, ok := table.symbols[name]
	if ok {
		return nil, fmt.Errorf("symbol (%s) previously defined as %s", name, prev)
	}

	return table.register(&Symbol{
		Name:    name,
		Kind:    TextSymbol,
		Section: code,
		Offset:  offset,
		Size:    size,
	}), nil
}
