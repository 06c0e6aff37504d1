package binformat

import (
	"fmt"
	"sync"

	"github.com/google/btree"
)

type RelocationType int

const (
	JavaCallDirect = RelocationType(iota + 1)
	StaticStubToStaticMethod
	StubCallDirect
	ExternalGotToPlt

	// Code references an external address through a GOT slot.  This is the
	// relocation produced for runtime-address marks.
	ExternalPltToGot

	LoadtimeAddress
	MetaspaceGotReference
)

var relocationTypeNames = map[RelocationType]string{
	JavaCallDirect:           "java_call_direct",
	StaticStubToStaticMethod: "static_stub_to_static_method",
	StubCallDirect:           "stub_call_direct",
	ExternalGotToPlt:         "external_got_to_plt",
	ExternalPltToGot:         "external_plt_to_got",
	LoadtimeAddress:          "loadtime_address",
	MetaspaceGotReference:    "metaspace_got_reference",
}

func (relocType RelocationType) String() string {
	name, ok := relocationTypeNames[relocType]
	if !ok {
		return fmt.Sprintf("unknown_relocation(%d)", int(relocType))
	}
	return name
}

// Relocation instructs the loader to patch Width bytes at Offset within
// Section with the resolved address of Symbol.
type Relocation struct {
	Offset  int
	Type    RelocationType
	Width   int
	Section *Section
	Symbol  *Symbol
}

func (reloc Relocation) End() int {
	return reloc.Offset + reloc.Width
}

func (reloc Relocation) String() string {
	return fmt.Sprintf(
		"%s+%d[%d] %s -> %s",
		reloc.Section.Name,
		reloc.Offset,
		reloc.Width,
		reloc.Type,
		reloc.Symbol.Name)
}

// RelocationStore holds one section's relocations in insertion order.
type RelocationStore struct {
	section *Section

	mutex       sync.Mutex
	relocations []Relocation

	// Built by validate, offset ordered.
	index *btree.BTreeG[indexedRelocation]
}

type indexedRelocation struct {
	Relocation
	sequence int
}

func lessIndexedRelocation(a indexedRelocation, b indexedRelocation) bool {
	if a.Offset != b.Offset {
		return a.Offset < b.Offset
	}
	return a.sequence < b.sequence
}

func NewRelocationStore(section *Section) *RelocationStore {
	return &RelocationStore{
		section: section,
	}
}

func (store *RelocationStore) Section() *Section {
	return store.section
}

// Add appends reloc.  No validation is performed here; see validate.
func (store *RelocationStore) Add(reloc Relocation) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if store.index != nil {
		panic(fmt.Sprintf(
			"relocation added to finalized section (%s)",
			store.section.Name))
	}

	store.relocations = append(store.relocations, reloc)
}

func (store *RelocationStore) Len() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	return len(store.relocations)
}

// Relocations returns the records in insertion order.
func (store *RelocationStore) Relocations() []Relocation {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	result := make([]Relocation, len(store.relocations))
	copy(result, store.relocations)
	return result
}

// validate checks every record against the final section length and for
// overlapping patch ranges, then builds the offset index.
func (store *RelocationStore) validate() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	sectionLen := store.section.Len()
	index := btree.NewG[indexedRelocation](16, lessIndexedRelocation)
	for idx, reloc := range store.relocations {
		if reloc.Offset < 0 || reloc.Width <= 0 || reloc.End() > sectionLen {
			return &RelocationBoundsError{
				Relocation: reloc,
				SectionLen: sectionLen,
			}
		}

		index.ReplaceOrInsert(indexedRelocation{
			Relocation: reloc,
			sequence:   idx,
		})
	}

	var err error
	var prev *indexedRelocation
	index.Ascend(func(item indexedRelocation) bool {
		if prev != nil && prev.End() > item.Offset {
			err = &RelocationOverlapError{
				First:  prev.Relocation,
				Second: item.Relocation,
			}
			return false
		}

		current := item
		prev = &current
		return true
	})
	if err != nil {
		return err
	}

	store.index = index
	return nil
}

// InRange returns, in offset order, the relocations whose patch offset lies
// within [start, end).  Only available after finalization.
func (store *RelocationStore) InRange(start int, end int) []Relocation {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if store.index == nil {
		panic(fmt.Sprintf(
			"relocation index for section (%s) is built at finalization",
			store.section.Name))
	}

	result := []Relocation{}
	store.index.AscendRange(
		indexedRelocation{Relocation: Relocation{Offset: start}, sequence: -1},
		indexedRelocation{Relocation: Relocation{Offset: end}, sequence: -1},
		func(item indexedRelocation) bool {
			result = append(result, item.Relocation)
			return true
		})
	return result
}
