package binformat

import (
	"fmt"

	"github.com/pattyshack/aotlink/architecture"
)

type SectionKind string

const (
	CodeSection     = SectionKind("code")
	GotSection      = SectionKind("got")
	MetadataSection = SectionKind("metadata")
)

// Section is a named, growable byte stream.  Contents are only appended to;
// offsets handed out by Append stay valid for the section's lifetime.
type Section struct {
	Name      string
	Kind      SectionKind
	Alignment int

	data   []byte
	frozen bool
}

func NewSection(name string, kind SectionKind, alignment int) *Section {
	if !architecture.IsPowerOfTwo(int64(alignment)) {
		panic(fmt.Sprintf("invalid section alignment (%s): %d", name, alignment))
	}

	return &Section{
		Name:      name,
		Kind:      kind,
		Alignment: alignment,
	}
}

func (section *Section) Len() int {
	return len(section.data)
}

// Bytes returns the section contents.  The caller must not modify the
// returned slice.
func (section *Section) Bytes() []byte {
	return section.data
}

func (section *Section) IsFrozen() bool {
	return section.frozen
}

func (section *Section) freeze() {
	section.frozen = true
}

func (section *Section) checkMutable() {
	if section.frozen {
		panic(fmt.Sprintf("section (%s) mutated after finalization", section.Name))
	}
}

func (section *Section) pad(alignment int) int {
	offset := architecture.AlignUp(len(section.data), alignment)
	for len(section.data) < offset {
		section.data = append(section.data, 0)
	}
	return offset
}

// Append copies content into the section at the next offset aligned to
// alignment, and returns that offset.
func (section *Section) Append(content []byte, alignment int) int {
	section.checkMutable()

	offset := section.pad(alignment)
	section.data = append(section.data, content...)
	return offset
}

// AppendZeros reserves size zeroed bytes at the next aligned offset.
func (section *Section) AppendZeros(size int, alignment int) int {
	section.checkMutable()

	offset := section.pad(alignment)
	section.data = append(section.data, make([]byte, size)...)
	return offset
}

func (section *Section) String() string {
	return fmt.Sprintf("%s(%s, %d bytes)", section.Name, section.Kind, len(section.data))
}
