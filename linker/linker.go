package linker

import (
	"github.com/pattyshack/gt/parseutil"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
	"github.com/pattyshack/aotlink/util"
)

type markLinker struct {
	*parseutil.Emitter
	processor *MarkProcessor
}

// LinkMarks processes every mark of every method, in recorded order, against
// the container.  The first error aborts the link; a partially relocated
// container is unusable.
func LinkMarks(
	emitter *parseutil.Emitter,
	container *binformat.Container,
) util.Pass[[]*compiled.MethodInfo] {
	return &markLinker{
		Emitter:   emitter,
		processor: NewMarkProcessor(container),
	}
}

func (linker *markLinker) Process(methods []*compiled.MethodInfo) {
	// Placement is the one cross-phase invariant mark processing relies on.
	for _, method := range methods {
		if !method.HasCodeSectionOffset() {
			linker.EmitErrors(&UnassignedOffsetError{Method: method.Name})
			return
		}
	}

	for _, method := range methods {
		for _, mark := range method.Marks {
			err := linker.processor.Process(method, mark)
			if err != nil {
				linker.EmitErrors(err)
				return
			}
		}
	}
}

// Link runs the link pipeline (validation, code packing, GOT seeding, mark
// processing) and finalizes the container.  Returns false if any error was
// emitted.
func Link(
	container *binformat.Container,
	methods []*compiled.MethodInfo,
	emitter *parseutil.Emitter,
) bool {
	passes := [][]util.Pass[[]*compiled.MethodInfo]{
		{ValidateMethods(emitter)},
		{PackCode(emitter, container)},
		{SeedRuntimeGot(container)},
		{LinkMarks(emitter, container)},
	}

	util.Process(methods, passes, emitter.HasErrors)
	if emitter.HasErrors() {
		return false
	}

	err := container.Finalize()
	if err != nil {
		emitter.EmitErrors(err)
		return false
	}

	return true
}
