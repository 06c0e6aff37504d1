package compiled

import (
	"testing"

	"github.com/pattyshack/gt/parseutil"
)

func TestMarkKindNamesRoundTrip(t *testing.T) {
	kinds := MarkKinds()
	if len(kinds) != len(markKindNames) {
		t.Fatalf("%d kinds, %d names", len(kinds), len(markKindNames))
	}

	for _, kind := range kinds {
		if !kind.IsValid() {
			t.Errorf("%s should be valid", kind)
		}

		parsed, err := ParseMarkKind(kind.String())
		if err != nil {
			t.Fatal(err)
		}

		if parsed != kind {
			t.Errorf("parsed %s as %s", kind, parsed)
		}
	}
}

func TestParseMarkKindRawInteger(t *testing.T) {
	kind, err := ParseMarkKind("999")
	if err != nil {
		t.Fatal(err)
	}

	if kind != MarkKind(999) || kind.IsValid() {
		t.Fatalf("unexpected kind %d", kind)
	}

	if kind.String() != "unknown_mark(999)" {
		t.Fatalf("unexpected name %s", kind)
	}

	_, err = ParseMarkKind("poll_sideways")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestInvalidMarkKinds(t *testing.T) {
	for _, kind := range []MarkKind{0, -1, endMarkKind, endMarkKind + 1, 999} {
		if kind.IsValid() {
			t.Errorf("%d should be invalid", int(kind))
		}
	}
}

func TestCodeSectionOffsetAssignedOnce(t *testing.T) {
	info := NewMethodInfo("a.b()V", make([]byte, 8))
	if info.HasCodeSectionOffset() {
		t.Fatal("offset should not be assigned")
	}

	info.SetCodeSectionOffset(0)
	if !info.HasCodeSectionOffset() || info.CodeSectionOffset() != 0 {
		t.Fatal("offset should be assigned")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on reassignment")
		}
		if info.CodeSectionOffset() != 0 {
			t.Fatal("offset changed")
		}
	}()

	info.SetCodeSectionOffset(64)
}

func TestUnassignedOffsetPanics(t *testing.T) {
	info := &MethodInfo{Name: "a.b()V"}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	info.CodeSectionOffset()
}

func TestValidate(t *testing.T) {
	info := NewMethodInfo(
		"a.b()V",
		make([]byte, 16),
		Mark{Kind: VerifiedEntry, Offset: 0},
		Mark{Kind: PollFar, Offset: 15})

	emitter := &parseutil.Emitter{}
	info.Validate(emitter)
	if emitter.HasErrors() {
		t.Fatal(emitter.Errors())
	}

	info.AddMark(PollFar, 16)
	info.AddMark(PollNear, -1)

	emitter = &parseutil.Emitter{}
	info.Validate(emitter)
	if len(emitter.Errors()) != 2 {
		t.Fatalf("expected 2 errors, found %v", emitter.Errors())
	}
}

func TestValidateEmptyMethod(t *testing.T) {
	emitter := &parseutil.Emitter{}
	(&MethodInfo{}).Validate(emitter)
	if len(emitter.Errors()) != 2 {
		t.Fatalf("expected 2 errors, found %v", emitter.Errors())
	}
}
