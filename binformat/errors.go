package binformat

import (
	"fmt"

	"github.com/docker/go-units"
)

type RelocationBoundsError struct {
	Relocation Relocation
	SectionLen int
}

func (err *RelocationBoundsError) Error() string {
	return fmt.Sprintf(
		"relocation (%s) outside section (%s) of length %d",
		err.Relocation,
		err.Relocation.Section.Name,
		err.SectionLen)
}

type RelocationOverlapError struct {
	First  Relocation
	Second Relocation
}

func (err *RelocationOverlapError) Error() string {
	return fmt.Sprintf(
		"relocation (%s) overlaps relocation (%s)",
		err.Second,
		err.First)
}

type CodeSizeLimitError struct {
	Size  int
	Limit int64
}

func (err *CodeSizeLimitError) Error() string {
	return fmt.Sprintf(
		"code section size %s exceeds limit %s",
		units.BytesSize(float64(err.Size)),
		units.BytesSize(float64(err.Limit)))
}
