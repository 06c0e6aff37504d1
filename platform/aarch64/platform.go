package aarch64

import (
	"debug/elf"

	"github.com/pattyshack/aotlink/architecture"
	"github.com/pattyshack/aotlink/platform"
)

// Instructions are 4 bytes; methods start on a cache-friendly boundary.
const codeAlignment = 32

type Platform struct {
	os platform.OperatingSystemName
}

func NewPlatform(os platform.OperatingSystemName) platform.Platform {
	return Platform{
		os: os,
	}
}

func (Platform) ArchitectureName() platform.ArchitectureName {
	return platform.Aarch64
}

func (p Platform) OperatingSystemName() platform.OperatingSystemName {
	return p.os
}

func (Platform) AddressByteSize() int {
	return architecture.AddressByteSize
}

func (Platform) CodeAlignment() int {
	return codeAlignment
}

func (Platform) AbsoluteAddressRelocation() uint32 {
	return uint32(elf.R_AARCH64_ABS64)
}
