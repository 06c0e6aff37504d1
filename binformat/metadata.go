package binformat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

const NoEntry = int32(-1)

// MethodMetadata is the fixed-size per-method record stored in the metadata
// section.  Entry offsets are method-local, NoEntry when absent.
type MethodMetadata struct {
	CodeOffset       uint32
	CodeSize         uint32
	VerifiedEntry    int32
	UnverifiedEntry  int32
	OsrEntry         int32
	ExceptionHandler int32
	DeoptHandler     int32
	NumMarks         uint32
}

const MethodMetadataSize = int(unsafe.Sizeof(MethodMetadata{}))

func NewMethodMetadata(codeOffset int, codeSize int) MethodMetadata {
	return MethodMetadata{
		CodeOffset:       uint32(codeOffset),
		CodeSize:         uint32(codeSize),
		VerifiedEntry:    NoEntry,
		UnverifiedEntry:  NoEntry,
		OsrEntry:         NoEntry,
		ExceptionHandler: NoEntry,
		DeoptHandler:     NoEntry,
	}
}

// AddMethodMetadata appends record to the metadata section and returns its
// offset.
func (container *Container) AddMethodMetadata(record MethodMetadata) int {
	buf := &bytes.Buffer{}
	err := binary.Write(buf, binary.LittleEndian, record)
	if err != nil { // fixed-size struct
		panic(err)
	}

	return container.metadata.Append(buf.Bytes(), container.metadata.Alignment)
}

// MethodMetadataAt decodes the record stored at offset.
func (container *Container) MethodMetadataAt(offset int) (MethodMetadata, error) {
	record := MethodMetadata{}

	content := container.metadata.Bytes()
	if offset < 0 || offset+MethodMetadataSize > len(content) {
		return record, fmt.Errorf(
			"method metadata at %d is outside %s [0, %d)",
			offset,
			container.metadata.Name,
			len(content))
	}

	err := binary.Read(
		bytes.NewReader(content[offset:offset+MethodMetadataSize]),
		binary.LittleEndian,
		&record)
	return record, err
}
