package linker

import (
	"fmt"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
)

type UnrecognizedMarkError struct {
	Method string
	Mark   compiled.Mark
}

func (err *UnrecognizedMarkError) Error() string {
	return fmt.Sprintf(
		"method (%s): unexpected mark kind %d at offset %d",
		err.Method,
		int(err.Mark.Kind),
		err.Mark.Offset)
}

type MissingGotSymbolError struct {
	Method string
	Mark   compiled.Mark
	Role   binformat.RuntimeAddressRole
	Symbol string
}

func (err *MissingGotSymbolError) Error() string {
	return fmt.Sprintf(
		"method (%s): mark (%s) references undefined got symbol (%s) for %s",
		err.Method,
		err.Mark,
		err.Symbol,
		err.Role)
}

// UnassignedOffsetError means the link phase ran before code packing placed
// the method.
type UnassignedOffsetError struct {
	Method string
}

func (err *UnassignedOffsetError) Error() string {
	return fmt.Sprintf(
		"method (%s): code section offset not assigned before link",
		err.Method)
}

// PatchBoundsError means a relocated mark's patch would run past the end of
// its method and into the next one.
type PatchBoundsError struct {
	Method   string
	Mark     compiled.Mark
	Width    int
	CodeSize int
}

func (err *PatchBoundsError) Error() string {
	return fmt.Sprintf(
		"method (%s): mark (%s) patch of %d bytes exceeds code size %d",
		err.Method,
		err.Mark,
		err.Width,
		err.CodeSize)
}
