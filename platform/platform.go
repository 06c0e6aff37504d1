package platform

import (
	"fmt"
)

type ArchitectureName string
type OperatingSystemName string

const (
	Amd64   = ArchitectureName("amd64")
	Aarch64 = ArchitectureName("aarch64")

	Linux  = OperatingSystemName("linux")
	Darwin = OperatingSystemName("darwin")
)

func (name ArchitectureName) Validate() error {
	switch name {
	case Amd64, Aarch64:
		return nil
	default:
		return fmt.Errorf("unsupported architecture (%s)", string(name))
	}
}

func (name OperatingSystemName) Validate() error {
	switch name {
	case Linux, Darwin:
		return nil
	default:
		return fmt.Errorf("unsupported operating system (%s)", string(name))
	}
}

type Platform interface {
	ArchitectureName() ArchitectureName
	OperatingSystemName() OperatingSystemName

	// Size of an absolute address, and hence of a patched GOT reference.
	AddressByteSize() int

	// Alignment of each method's code within the code section.
	CodeAlignment() int

	// ELF relocation number for a word-sized absolute address.
	AbsoluteAddressRelocation() uint32
}
