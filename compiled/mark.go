package compiled

import (
	"fmt"
	"strconv"
)

// MarkKind identifies why the code generator marked a code position.  The
// numbering is shared with the code generator; values outside the declared
// range are unrecognized.
type MarkKind int

const (
	VerifiedEntry = MarkKind(iota + 1)
	UnverifiedEntry
	OsrEntry
	ExceptionHandlerEntry
	DeoptHandlerEntry

	InvokeInterface
	InvokeVirtual
	InvokeStatic
	InvokeSpecial
	InlineInvoke

	PollNear
	PollReturnNear
	PollFar
	PollReturnFar

	CardTableAddress
	HeapTopAddress
	HeapEndAddress
	NarrowKlassBaseAddress
	CrcTableAddress
	LogOfHeapRegionGrainBytes
	InlineContiguousAllocationSupported

	endMarkKind
)

var markKindNames = map[MarkKind]string{
	VerifiedEntry:         "verified_entry",
	UnverifiedEntry:       "unverified_entry",
	OsrEntry:              "osr_entry",
	ExceptionHandlerEntry: "exception_handler_entry",
	DeoptHandlerEntry:     "deopt_handler_entry",

	InvokeInterface: "invoke_interface",
	InvokeVirtual:   "invoke_virtual",
	InvokeStatic:    "invoke_static",
	InvokeSpecial:   "invoke_special",
	InlineInvoke:    "inline_invoke",

	PollNear:       "poll_near",
	PollReturnNear: "poll_return_near",
	PollFar:        "poll_far",
	PollReturnFar:  "poll_return_far",

	CardTableAddress:                    "card_table_address",
	HeapTopAddress:                      "heap_top_address",
	HeapEndAddress:                      "heap_end_address",
	NarrowKlassBaseAddress:              "narrow_klass_base_address",
	CrcTableAddress:                     "crc_table_address",
	LogOfHeapRegionGrainBytes:           "log_of_heap_region_grain_bytes",
	InlineContiguousAllocationSupported: "inline_contiguous_allocation_supported",
}

var markKindsByName = func() map[string]MarkKind {
	result := make(map[string]MarkKind, len(markKindNames))
	for kind, name := range markKindNames {
		result[name] = kind
	}
	return result
}()

// MarkKinds returns every recognized mark kind in numeric order.
func MarkKinds() []MarkKind {
	kinds := make([]MarkKind, 0, len(markKindNames))
	for kind := VerifiedEntry; kind < endMarkKind; kind++ {
		kinds = append(kinds, kind)
	}
	return kinds
}

func (kind MarkKind) IsValid() bool {
	return VerifiedEntry <= kind && kind < endMarkKind
}

func (kind MarkKind) String() string {
	name, ok := markKindNames[kind]
	if !ok {
		return "unknown_mark(" + strconv.Itoa(int(kind)) + ")"
	}
	return name
}

// ParseMarkKind accepts either a mark kind name or its raw integer value.
// Raw integers are returned as is, even when they are not recognized, since
// rejecting them is the mark processor's job.
func ParseMarkKind(value string) (MarkKind, error) {
	kind, ok := markKindsByName[value]
	if ok {
		return kind, nil
	}

	raw, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("unknown mark kind (%s)", value)
	}

	return MarkKind(raw), nil
}

// Mark is a (kind, method-local offset) annotation recorded by the code
// generator.
type Mark struct {
	Kind   MarkKind
	Offset int
}

func (mark Mark) String() string {
	return fmt.Sprintf("%s@%d", mark.Kind, mark.Offset)
}
