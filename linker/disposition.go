package linker

import (
	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
)

// Disposition is the classification of a mark kind.  The set of
// dispositions is closed: Ignore, Relocate and Unrecognized.
type Disposition interface {
	isDisposition()
}

// Ignore marks exist for downstream metadata consumers and need no
// relocation.
type Ignore struct{}

// Relocate marks reference a runtime address through its GOT slot.
type Relocate struct {
	Role binformat.RuntimeAddressRole
}

// Unrecognized marks are outside the known set, which means the code
// generator and this linker disagree on the mark numbering.
type Unrecognized struct {
	Kind compiled.MarkKind
}

func (Ignore) isDisposition()       {}
func (Relocate) isDisposition()     {}
func (Unrecognized) isDisposition() {}

func Classify(kind compiled.MarkKind) Disposition {
	switch kind {
	case compiled.VerifiedEntry,
		compiled.UnverifiedEntry,
		compiled.OsrEntry,
		compiled.ExceptionHandlerEntry,
		compiled.DeoptHandlerEntry,
		compiled.InvokeInterface,
		compiled.InvokeVirtual,
		compiled.InvokeStatic,
		compiled.InvokeSpecial,
		compiled.InlineInvoke,
		compiled.PollNear,
		compiled.PollReturnNear:

		return Ignore{}
	case compiled.PollFar, compiled.PollReturnFar:
		return Relocate{Role: binformat.PollingPage}
	case compiled.CardTableAddress:
		return Relocate{Role: binformat.CardTableAddress}
	case compiled.HeapTopAddress:
		return Relocate{Role: binformat.HeapTopAddress}
	case compiled.HeapEndAddress:
		return Relocate{Role: binformat.HeapEndAddress}
	case compiled.NarrowKlassBaseAddress:
		return Relocate{Role: binformat.NarrowKlassBaseAddress}
	case compiled.CrcTableAddress:
		return Relocate{Role: binformat.CrcTableAddress}
	case compiled.LogOfHeapRegionGrainBytes:
		return Relocate{Role: binformat.LogOfHeapRegionGrainBytes}
	case compiled.InlineContiguousAllocationSupported:
		return Relocate{Role: binformat.InlineContiguousAllocationSupported}
	default:
		return Unrecognized{Kind: kind}
	}
}
