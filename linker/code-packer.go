package linker

import (
	"fmt"

	"github.com/pattyshack/gt/parseutil"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
	"github.com/pattyshack/aotlink/util"
)

type codePacker struct {
	*parseutil.Emitter
	container *binformat.Container
}

// PackCode places every method's code in the container's code section, in
// method order, and records the method's entry symbol and metadata.  Packing
// must complete before any mark is processed.
func PackCode(
	emitter *parseutil.Emitter,
	container *binformat.Container,
) util.Pass[[]*compiled.MethodInfo] {
	return &codePacker{
		Emitter:   emitter,
		container: container,
	}
}

func (packer *codePacker) Process(methods []*compiled.MethodInfo) {
	for _, method := range methods {
		packer.pack(method)
	}
}

func (packer *codePacker) pack(method *compiled.MethodInfo) {
	if method.HasCodeSectionOffset() {
		packer.EmitErrors(fmt.Errorf(
			"method (%s) already placed at code offset %d",
			method.Name,
			method.CodeSectionOffset()))
		return
	}

	code := packer.container.CodeContainer()
	offset := code.Append(method.Code, packer.container.Platform().CodeAlignment())
	method.SetCodeSectionOffset(offset)

	_, err := packer.container.Symbols().DefineTextSymbol(
		method.Name,
		code,
		offset,
		len(method.Code))
	if err != nil {
		packer.EmitErrors(err)
		return
	}

	packer.container.AddMethodMetadata(newMethodMetadata(method, offset))
}

// Only the first mark of each entry kind is recorded.
func newMethodMetadata(
	method *compiled.MethodInfo,
	offset int,
) binformat.MethodMetadata {
	record := binformat.NewMethodMetadata(offset, len(method.Code))
	record.NumMarks = uint32(len(method.Marks))

	set := func(entry *int32, mark compiled.Mark) {
		if *entry == binformat.NoEntry {
			*entry = int32(mark.Offset)
		}
	}

	for _, mark := range method.Marks {
		switch mark.Kind {
		case compiled.VerifiedEntry:
			set(&record.VerifiedEntry, mark)
		case compiled.UnverifiedEntry:
			set(&record.UnverifiedEntry, mark)
		case compiled.OsrEntry:
			set(&record.OsrEntry, mark)
		case compiled.ExceptionHandlerEntry:
			set(&record.ExceptionHandler, mark)
		case compiled.DeoptHandlerEntry:
			set(&record.DeoptHandler, mark)
		}
	}

	return record
}
