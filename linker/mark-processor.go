package linker

import (
	"fmt"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
)

// MarkProcessor turns compiler marks into relocations against a shared
// container.  It holds no per-mark state.
type MarkProcessor struct {
	container *binformat.Container
}

func NewMarkProcessor(container *binformat.Container) *MarkProcessor {
	return &MarkProcessor{
		container: container,
	}
}

// PatchOffset returns the absolute code section offset of a method-local
// mark offset.
func PatchOffset(codeSectionOffset int, markOffset int) int {
	return codeSectionOffset + markOffset
}

// Process handles a single mark of method, appending at most one relocation
// to the container.  Any error is fatal to the build.
func (processor *MarkProcessor) Process(
	method *compiled.MethodInfo,
	mark compiled.Mark,
) error {
	switch disposition := Classify(mark.Kind).(type) {
	case Ignore:
		return nil
	case Relocate:
		return processor.relocate(method, mark, disposition.Role)
	case Unrecognized:
		return &UnrecognizedMarkError{
			Method: method.Name,
			Mark:   mark,
		}
	default:
		panic(fmt.Sprintf("unhandled disposition: %T", disposition))
	}
}

func (processor *MarkProcessor) relocate(
	method *compiled.MethodInfo,
	mark compiled.Mark,
	role binformat.RuntimeAddressRole,
) error {
	name := binformat.GotSymbolName(processor.container.RoleSymbolName(role))
	gotSymbol, ok := processor.container.GetGotSymbol(name)
	if !ok {
		return &MissingGotSymbolError{
			Method: method.Name,
			Mark:   mark,
			Role:   role,
			Symbol: name,
		}
	}

	if !method.HasCodeSectionOffset() {
		return &UnassignedOffsetError{Method: method.Name}
	}

	width := processor.container.Platform().AddressByteSize()
	if mark.Offset < 0 || mark.Offset+width > len(method.Code) {
		return &PatchBoundsError{
			Method:   method.Name,
			Mark:     mark,
			Width:    width,
			CodeSize: len(method.Code),
		}
	}

	code := processor.container.CodeContainer()
	processor.container.AddRelocation(binformat.Relocation{
		Offset:  PatchOffset(method.CodeSectionOffset(), mark.Offset),
		Type:    binformat.ExternalPltToGot,
		Width:   width,
		Section: code,
		Symbol:  gotSymbol,
	})
	return nil
}
