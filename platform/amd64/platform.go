package amd64

import (
	"debug/elf"

	"github.com/pattyshack/aotlink/architecture"
	"github.com/pattyshack/aotlink/platform"
)

const codeAlignment = 16

type Platform struct {
	os platform.OperatingSystemName
}

func NewPlatform(os platform.OperatingSystemName) platform.Platform {
	return Platform{
		os: os,
	}
}

func (Platform) ArchitectureName() platform.ArchitectureName {
	return platform.Amd64
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
	return uint32(elf.R_X86_64_64)
}
