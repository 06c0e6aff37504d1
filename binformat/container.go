package binformat

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pattyshack/aotlink/platform"
)

const (
	CodeSectionName     = ".text"
	GotSectionName      = ".got"
	MetadataSectionName = ".meta"
)

// BuildIdNamespace scopes content derived build ids.
var BuildIdNamespace = uuid.NewSHA1(
	uuid.NameSpaceURL,
	[]byte("https://github.com/pattyshack/aotlink"))

type GarbageCollector string

const (
	SerialGC   = GarbageCollector("serial")
	ParallelGC = GarbageCollector("parallel")
	CmsGC      = GarbageCollector("cms")
	G1GC       = GarbageCollector("g1")
	EpsilonGC  = GarbageCollector("epsilon")
)

func (gc GarbageCollector) Validate() error {
	switch gc {
	case SerialGC, ParallelGC, CmsGC, G1GC, EpsilonGC:
		return nil
	default:
		return fmt.Errorf("unsupported garbage collector (%s)", string(gc))
	}
}

func (gc GarbageCollector) UsesCardTable() bool {
	return gc != EpsilonGC
}

type ContainerConfig struct {
	Platform platform.Platform

	GarbageCollector           GarbageCollector
	CompressedClassPointers    bool
	Crc32Intrinsics            bool
	InlineContiguousAllocation bool

	// Maximum code section size in bytes.  Zero means unlimited.
	CodeSizeLimit int64
}

// Container is the shared binary aggregate for one compilation run.  It is
// mutated by the packing, GOT seeding and link phases, then frozen by
// Finalize.
type Container struct {
	config  ContainerConfig
	buildId uuid.UUID

	code     *Section
	got      *Section
	metadata *Section

	symbols *SymbolTable

	relocations map[*Section]*RelocationStore

	mutex     sync.Mutex
	finalized bool
}

func NewContainer(config ContainerConfig) *Container {
	if config.Platform == nil {
		panic("container requires a target platform")
	}

	addressSize := config.Platform.AddressByteSize()

	code := NewSection(CodeSectionName, CodeSection, config.Platform.CodeAlignment())
	got := NewSection(GotSectionName, GotSection, addressSize)
	metadata := NewSection(MetadataSectionName, MetadataSection, addressSize)

	return &Container{
		config:   config,
		code:     code,
		got:      got,
		metadata: metadata,
		symbols:  NewSymbolTable(got, addressSize),
		relocations: map[*Section]*RelocationStore{
			code:     NewRelocationStore(code),
			got:      NewRelocationStore(got),
			metadata: NewRelocationStore(metadata),
		},
	}
}

func (container *Container) Config() ContainerConfig {
	return container.config
}

func (container *Container) Platform() platform.Platform {
	return container.config.Platform
}

// BuildId identifies the container's finalized content.  Identical link
// inputs produce identical build ids.  uuid.Nil until finalized.
func (container *Container) BuildId() uuid.UUID {
	container.mutex.Lock()
	defer container.mutex.Unlock()

	return container.buildId
}

func (container *Container) CodeContainer() *Section {
	return container.code
}

func (container *Container) GotContainer() *Section {
	return container.got
}

func (container *Container) MetadataContainer() *Section {
	return container.metadata
}

// Sections returns the container's sections in serialization order.
func (container *Container) Sections() []*Section {
	return []*Section{container.code, container.got, container.metadata}
}

func (container *Container) Symbols() *SymbolTable {
	return container.symbols
}

func (container *Container) GetOrCreateGotSymbol(name string) *Symbol {
	return container.symbols.GetOrCreateGotSymbol(name)
}

// GetGotSymbol looks up an existing GOT slot symbol.  It never allocates.
func (container *Container) GetGotSymbol(name string) (*Symbol, bool) {
	symbol, ok := container.symbols.Lookup(name)
	if !ok || symbol.Kind != GotSlotSymbol {
		return nil, false
	}
	return symbol, true
}

func (container *Container) RelocationStore(section *Section) *RelocationStore {
	store, ok := container.relocations[section]
	if !ok {
		panic(fmt.Sprintf("section (%s) is not owned by this container", section.Name))
	}
	return store
}

func (container *Container) AddRelocation(reloc Relocation) {
	container.RelocationStore(reloc.Section).Add(reloc)
}

// Relocations returns every relocation, grouped by section in serialization
// order, insertion ordered within a section.
func (container *Container) Relocations() []Relocation {
	result := []Relocation{}
	for _, section := range container.Sections() {
		result = append(result, container.relocations[section].Relocations()...)
	}
	return result
}

func (container *Container) NumRelocations() int {
	count := 0
	for _, store := range container.relocations {
		count += store.Len()
	}
	return count
}

func (container *Container) IsFinalized() bool {
	container.mutex.Lock()
	defer container.mutex.Unlock()

	return container.finalized
}

// Finalize validates every relocation against its section and freezes the
// container.  A finalized container is read-only.
func (container *Container) Finalize() error {
	container.mutex.Lock()
	defer container.mutex.Unlock()

	if container.finalized {
		return nil
	}

	limit := container.config.CodeSizeLimit
	if limit > 0 && int64(container.code.Len()) > limit {
		return &CodeSizeLimitError{
			Size:  container.code.Len(),
			Limit: limit,
		}
	}

	for _, section := range container.Sections() {
		err := container.relocations[section].validate()
		if err != nil {
			return err
		}
	}

	for _, section := range container.Sections() {
		section.freeze()
	}

	container.buildId = uuid.NewSHA1(BuildIdNamespace, container.fingerprint())
	container.finalized = true
	return nil
}

// fingerprint renders everything that reaches the serialized artifact, in
// serialization order.
func (container *Container) fingerprint() []byte {
	buf := &bytes.Buffer{}

	config := container.config
	fmt.Fprintf(
		buf,
		"%s/%s gc=%s compressed-class-pointers=%v crc32=%v inline-alloc=%v\n",
		config.Platform.ArchitectureName(),
		config.Platform.OperatingSystemName(),
		config.GarbageCollector,
		config.CompressedClassPointers,
		config.Crc32Intrinsics,
		config.InlineContiguousAllocation)

	for _, section := range container.Sections() {
		fmt.Fprintf(buf, "%s %d\n", section, section.Alignment)
		buf.Write(section.Bytes())
	}

	for _, symbol := range container.symbols.Symbols() {
		fmt.Fprintf(buf, "%d %s size=%d\n", symbol.Index(), symbol, symbol.Size)
	}

	for _, reloc := range container.Relocations() {
		fmt.Fprintf(buf, "%s #%d\n", reloc, reloc.Symbol.Index())
	}

	return buf.Bytes()
}
