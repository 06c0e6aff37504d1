// Package artifact serializes a finalized binary container.
//
// Layout (little endian):
//
//	header
//	architecture name, operating system name
//	sections:    name, kind, alignment, length, contents
//	symbols:     name, kind, section index, offset, size
//	relocations: section index, offset, type, width, symbol index, ELF type
//
// Strings are a uint32 length followed by the bytes.
package artifact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/config"
)

const Version = 1

var Magic = [4]byte{'A', 'O', 'T', 'L'}

type Header struct {
	Magic          [4]byte
	Version        uint32
	BuildId        [16]byte
	AddressSize    uint32
	NumSections    uint32
	NumSymbols     uint32
	NumRelocations uint32
}

type encoder struct {
	buf *bytes.Buffer
}

func (enc encoder) write(value any) {
	err := binary.Write(enc.buf, binary.LittleEndian, value)
	if err != nil { // only fixed-size values are written
		panic(err)
	}
}

func (enc encoder) writeString(value string) {
	enc.write(uint32(len(value)))
	enc.buf.WriteString(value)
}

// Encode returns the uncompressed serialization of container.
func Encode(container *binformat.Container) ([]byte, error) {
	if !container.IsFinalized() {
		return nil, fmt.Errorf("container must be finalized before serialization")
	}

	target := container.Platform()
	sections := container.Sections()
	symbols := container.Symbols().Symbols()
	relocations := container.Relocations()

	sectionIndex := make(map[*binformat.Section]int32, len(sections))
	for idx, section := range sections {
		sectionIndex[section] = int32(idx)
	}

	enc := encoder{buf: &bytes.Buffer{}}
	enc.write(Header{
		Magic:          Magic,
		Version:        Version,
		BuildId:        [16]byte(container.BuildId()),
		AddressSize:    uint32(target.AddressByteSize()),
		NumSections:    uint32(len(sections)),
		NumSymbols:     uint32(len(symbols)),
		NumRelocations: uint32(len(relocations)),
	})
	enc.writeString(string(target.ArchitectureName()))
	enc.writeString(string(target.OperatingSystemName()))

	for _, section := range sections {
		enc.writeString(section.Name)
		enc.writeString(string(section.Kind))
		enc.write(uint32(section.Alignment))
		enc.write(uint64(section.Len()))
		enc.buf.Write(section.Bytes())
	}

	for _, symbol := range symbols {
		enc.writeString(symbol.Name)
		enc.writeString(string(symbol.Kind))
		enc.write(sectionIndex[symbol.Section])
		enc.write(uint64(symbol.Offset))
		enc.write(uint64(symbol.Size))
	}

	elfType := target.AbsoluteAddressRelocation()
	for _, reloc := range relocations {
		enc.write(sectionIndex[reloc.Section])
		enc.write(uint64(reloc.Offset))
		enc.write(uint32(reloc.Type))
		enc.write(uint32(reloc.Width))
		enc.write(uint32(reloc.Symbol.Index()))
		enc.write(elfType)
	}

	return enc.buf.Bytes(), nil
}

// Write serializes container into out, compressed as requested.
func Write(
	out io.Writer,
	container *binformat.Container,
	compression config.Compression,
) error {
	content, err := Encode(container)
	if err != nil {
		return err
	}

	switch compression {
	case config.NoCompression, "":
		_, err = out.Write(content)
		return err
	case config.Lz4Compression:
		writer := lz4.NewWriter(out)
		_, err = writer.Write(content)
		if err != nil {
			return err
		}
		return writer.Close()
	case config.XzCompression:
		writer, err := xz.NewWriter(out)
		if err != nil {
			return err
		}
		_, err = writer.Write(content)
		if err != nil {
			return err
		}
		return writer.Close()
	default:
		return fmt.Errorf("unsupported compression (%s)", string(compression))
	}
}

// ReadHeader decodes the header of an uncompressed serialization.
func ReadHeader(content []byte) (Header, error) {
	header := Header{}
	err := binary.Read(bytes.NewReader(content), binary.LittleEndian, &header)
	if err != nil {
		return header, err
	}

	if header.Magic != Magic {
		return header, fmt.Errorf("not an aot artifact")
	}

	if header.Version != Version {
		return header, fmt.Errorf("unsupported artifact version (%d)", header.Version)
	}

	return header, nil
}
