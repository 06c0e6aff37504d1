package binformat

import (
	"fmt"
)

const GotSymbolPrefix = "got."

// RuntimeAddressRole is a well-known runtime value that generated code reaches
// through a GOT slot.
type RuntimeAddressRole int

const (
	PollingPage = RuntimeAddressRole(iota + 1)
	CardTableAddress
	HeapTopAddress
	HeapEndAddress
	NarrowKlassBaseAddress
	CrcTableAddress
	LogOfHeapRegionGrainBytes
	InlineContiguousAllocationSupported

	endRuntimeAddressRole
)

func RuntimeAddressRoles() []RuntimeAddressRole {
	roles := []RuntimeAddressRole{}
	for role := PollingPage; role < endRuntimeAddressRole; role++ {
		roles = append(roles, role)
	}
	return roles
}

func (role RuntimeAddressRole) String() string {
	switch role {
	case PollingPage:
		return "polling-page"
	case CardTableAddress:
		return "card-table-address"
	case HeapTopAddress:
		return "heap-top-address"
	case HeapEndAddress:
		return "heap-end-address"
	case NarrowKlassBaseAddress:
		return "narrow-klass-base-address"
	case CrcTableAddress:
		return "crc-table-address"
	case LogOfHeapRegionGrainBytes:
		return "log-of-heap-region-grain-bytes"
	case InlineContiguousAllocationSupported:
		return "inline-contiguous-allocation-supported"
	default:
		return fmt.Sprintf("unknown-role(%d)", int(role))
	}
}

// GotSymbolName returns the GOT slot symbol name for a runtime symbol name.
func GotSymbolName(name string) string {
	return GotSymbolPrefix + name
}

// Runtime symbol names, as exported by the loader.
const (
	pollingPageSymbolName                         = "_aot_polling_page"
	cardTableAddressSymbolName                    = "_aot_card_table_address"
	heapTopAddressSymbolName                      = "_aot_heap_top_address"
	heapEndAddressSymbolName                      = "_aot_heap_end_address"
	narrowKlassBaseAddressSymbolName              = "_aot_narrow_klass_base_address"
	crcTableAddressSymbolName                     = "_aot_stub_routines_crc_table_adr"
	logOfHeapRegionGrainBytesSymbolName           = "_aot_log_of_heap_region_grain_bytes"
	inlineContiguousAllocationSupportedSymbolName = "_aot_inline_contiguous_allocation_supported"
)

func (container *Container) PollingPageSymbolName() string {
	return pollingPageSymbolName
}

func (container *Container) CardTableAddressSymbolName() string {
	return cardTableAddressSymbolName
}

func (container *Container) HeapTopAddressSymbolName() string {
	return heapTopAddressSymbolName
}

func (container *Container) HeapEndAddressSymbolName() string {
	return heapEndAddressSymbolName
}

func (container *Container) NarrowKlassBaseAddressSymbolName() string {
	return narrowKlassBaseAddressSymbolName
}

func (container *Container) CrcTableAddressSymbolName() string {
	return crcTableAddressSymbolName
}

func (container *Container) LogOfHeapRegionGrainBytesSymbolName() string {
	return logOfHeapRegionGrainBytesSymbolName
}

func (container *Container) InlineContiguousAllocationSupportedSymbolName() string {
	return inlineContiguousAllocationSupportedSymbolName
}

// RoleSymbolName returns the runtime symbol name (without the GOT prefix)
// for role.
func (container *Container) RoleSymbolName(role RuntimeAddressRole) string {
	switch role {
	case PollingPage:
		return container.PollingPageSymbolName()
	case CardTableAddress:
		return container.CardTableAddressSymbolName()
	case HeapTopAddress:
		return container.HeapTopAddressSymbolName()
	case HeapEndAddress:
		return container.HeapEndAddressSymbolName()
	case NarrowKlassBaseAddress:
		return container.NarrowKlassBaseAddressSymbolName()
	case CrcTableAddress:
		return container.CrcTableAddressSymbolName()
	case LogOfHeapRegionGrainBytes:
		return container.LogOfHeapRegionGrainBytesSymbolName()
	case InlineContiguousAllocationSupported:
		return container.InlineContiguousAllocationSupportedSymbolName()
	default:
		panic(fmt.Sprintf("unhandled runtime address role: %s", role))
	}
}

// RoleEnabled reports whether the target configuration provides role.  Only
// enabled roles are seeded into the GOT.
func (container *Container) RoleEnabled(role RuntimeAddressRole) bool {
	config := container.config
	switch role {
	case PollingPage, InlineContiguousAllocationSupported:
		return true
	case CardTableAddress:
		return config.GarbageCollector.UsesCardTable()
	case HeapTopAddress, HeapEndAddress:
		return config.InlineContiguousAllocation
	case NarrowKlassBaseAddress:
		return config.CompressedClassPointers
	case CrcTableAddress:
		return config.Crc32Intrinsics
	case LogOfHeapRegionGrainBytes:
		return config.GarbageCollector == G1GC
	default:
		panic(fmt.Sprintf("unhandled runtime address role: %s", role))
	}
}
