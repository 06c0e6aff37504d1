package linker

import (
	"errors"
	"testing"

	"github.com/pattyshack/gt/parseutil"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
)

func newMethods() []*compiled.MethodInfo {
	return []*compiled.MethodInfo{
		compiled.NewMethodInfo(
			"a.A.run()V",
			make([]byte, 100),
			compiled.Mark{Kind: compiled.UnverifiedEntry, Offset: 0},
			compiled.Mark{Kind: compiled.VerifiedEntry, Offset: 16},
			compiled.Mark{Kind: compiled.PollFar, Offset: 40},
			compiled.Mark{Kind: compiled.InvokeStatic, Offset: 60},
			compiled.Mark{Kind: compiled.ExceptionHandlerEntry, Offset: 80}),
		compiled.NewMethodInfo(
			"a.A.alloc()Ljava/lang/Object;",
			make([]byte, 64),
			compiled.Mark{Kind: compiled.VerifiedEntry, Offset: 0},
			compiled.Mark{Kind: compiled.HeapTopAddress, Offset: 8},
			compiled.Mark{Kind: compiled.HeapEndAddress, Offset: 24},
			compiled.Mark{Kind: compiled.PollReturnFar, Offset: 48}),
	}
}

func TestLink(t *testing.T) {
	container := newTestContainer()
	methods := newMethods()
	emitter := &parseutil.Emitter{}

	if !Link(container, methods, emitter) {
		t.Fatal(emitter.Errors())
	}

	if !container.IsFinalized() {
		t.Fatal("container should be finalized")
	}

	// 100 bytes padded to 16 byte alignment.
	if methods[0].CodeSectionOffset() != 0 || methods[1].CodeSectionOffset() != 112 {
		t.Fatalf(
			"unexpected placement %d %d",
			methods[0].CodeSectionOffset(),
			methods[1].CodeSectionOffset())
	}

	if container.CodeContainer().Len() != 176 {
		t.Fatalf("unexpected code size %d", container.CodeContainer().Len())
	}

	relocs := container.Relocations()
	expected := []int{40, 120, 136, 160}
	if len(relocs) != len(expected) {
		t.Fatalf("unexpected relocations %v", relocs)
	}

	for idx, offset := range expected {
		if relocs[idx].Offset != offset {
			t.Errorf("relocation %d: offset %d, expected %d", idx, relocs[idx].Offset, offset)
		}
	}

	if relocs[0].Symbol != relocs[3].Symbol {
		t.Fatal("polls should share the polling page slot")
	}

	inMethod := container.RelocationStore(container.CodeContainer()).InRange(112, 176)
	if len(inMethod) != 3 {
		t.Fatalf("unexpected relocations in second method %v", inMethod)
	}

	symbol, ok := container.Symbols().Lookup("a.A.alloc()Ljava/lang/Object;")
	if !ok || symbol.Kind != binformat.TextSymbol || symbol.Offset != 112 || symbol.Size != 64 {
		t.Fatalf("unexpected text symbol %v", symbol)
	}
}

func TestLinkMetadata(t *testing.T) {
	container := newTestContainer()
	methods := newMethods()
	emitter := &parseutil.Emitter{}

	if !Link(container, methods, emitter) {
		t.Fatal(emitter.Errors())
	}

	record, err := container.MethodMetadataAt(0)
	if err != nil {
		t.Fatal(err)
	}

	if record.CodeOffset != 0 ||
		record.CodeSize != 100 ||
		record.VerifiedEntry != 16 ||
		record.UnverifiedEntry != 0 ||
		record.ExceptionHandler != 80 ||
		record.DeoptHandler != binformat.NoEntry ||
		record.NumMarks != 5 {

		t.Fatalf("unexpected metadata %+v", record)
	}

	record, err = container.MethodMetadataAt(binformat.MethodMetadataSize)
	if err != nil {
		t.Fatal(err)
	}

	if record.CodeOffset != 112 || record.CodeSize != 64 || record.NumMarks != 4 {
		t.Fatalf("unexpected metadata %+v", record)
	}
}

func TestLinkAbortsOnUnrecognizedMark(t *testing.T) {
	container := newTestContainer()
	methods := newMethods()
	methods[0].Marks = append(
		methods[0].Marks[:3],
		compiled.Mark{Kind: compiled.MarkKind(999), Offset: 50})
	emitter := &parseutil.Emitter{}

	if Link(container, methods, emitter) {
		t.Fatal("expected link failure")
	}

	errs := emitter.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected single error, found %v", errs)
	}

	markErr := &UnrecognizedMarkError{}
	if !errors.As(errs[0], &markErr) {
		t.Fatalf("unexpected error %v", errs[0])
	}

	if container.IsFinalized() {
		t.Fatal("failed link should not finalize")
	}

	// Processing stops at the failing mark; the second method is untouched.
	if container.NumRelocations() != 1 {
		t.Fatalf("unexpected relocations %v", container.Relocations())
	}
}

func TestLinkReportsValidationErrors(t *testing.T) {
	container := newTestContainer()
	methods := newMethods()
	methods[1].AddMark(compiled.PollFar, 64)
	methods = append(methods, compiled.NewMethodInfo("a.A.run()V", make([]byte, 8)))
	emitter := &parseutil.Emitter{}

	if Link(container, methods, emitter) {
		t.Fatal("expected link failure")
	}

	if len(emitter.Errors()) != 2 {
		t.Fatalf("expected 2 errors, found %v", emitter.Errors())
	}

	if container.CodeContainer().Len() != 0 {
		t.Fatal("packing should not run after validation errors")
	}
}

func TestLinkMarksRequiresPacking(t *testing.T) {
	container := newTestContainer()
	methods := newMethods()
	emitter := &parseutil.Emitter{}

	SeedRuntimeGot(container).Process(methods)
	LinkMarks(emitter, container).Process(methods)

	errs := emitter.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected single error, found %v", errs)
	}

	offsetErr := &UnassignedOffsetError{}
	if !errors.As(errs[0], &offsetErr) {
		t.Fatalf("unexpected error %v", errs[0])
	}

	if container.NumRelocations() != 0 {
		t.Fatal("no mark should be processed")
	}
}

func TestPackCodeRejectsPlacedMethod(t *testing.T) {
	container := newTestContainer()
	method := placedMethod("m", 0)
	emitter := &parseutil.Emitter{}

	PackCode(emitter, container).Process([]*compiled.MethodInfo{method})
	if len(emitter.Errors()) != 1 {
		t.Fatalf("expected single error, found %v", emitter.Errors())
	}
}

func TestSeedRuntimeGotIdempotent(t *testing.T) {
	container := newTestContainer()

	first := SeedRuntimeGotSymbols(container)
	second := SeedRuntimeGotSymbols(container)

	if len(first) != 8 || len(second) != 8 {
		t.Fatalf("unexpected seed counts %d %d", len(first), len(second))
	}

	for idx := range first {
		if first[idx] != second[idx] {
			t.Fatalf("seed %d returned a new symbol", idx)
		}
	}

	if container.GotContainer().Len() != 64 {
		t.Fatalf("unexpected got size %d", container.GotContainer().Len())
	}
}

func TestLinkRejectsPatchIntoNextMethod(t *testing.T) {
	container := newTestContainer()
	methods := []*compiled.MethodInfo{
		compiled.NewMethodInfo(
			"a",
			make([]byte, 16),
			compiled.Mark{Kind: compiled.PollFar, Offset: 15}),
		compiled.NewMethodInfo("b", make([]byte, 16)),
	}
	emitter := &parseutil.Emitter{}

	if Link(container, methods, emitter) {
		t.Fatal("expected link failure")
	}

	errs := emitter.Errors()
	boundsErr := &PatchBoundsError{}
	if len(errs) != 1 || !errors.As(errs[0], &boundsErr) {
		t.Fatalf("unexpected errors %v", errs)
	}

	if container.IsFinalized() || container.NumRelocations() != 0 {
		t.Fatal("failed link should leave no relocations")
	}
}
