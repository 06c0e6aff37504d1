package compiled

import (
	"fmt"

	"github.com/pattyshack/gt/parseutil"
)

// MethodInfo is one compiled method's generated artifact, as handed to the
// link phase.
type MethodInfo struct {
	Name  string
	Code  []byte
	Marks []Mark

	// Set once by the code packing phase.
	codeSectionOffset int
	hasOffset         bool
}

func NewMethodInfo(name string, code []byte, marks ...Mark) *MethodInfo {
	return &MethodInfo{
		Name:  name,
		Code:  code,
		Marks: marks,
	}
}

func (info *MethodInfo) AddMark(kind MarkKind, offset int) {
	info.Marks = append(info.Marks, Mark{Kind: kind, Offset: offset})
}

func (info *MethodInfo) HasCodeSectionOffset() bool {
	return info.hasOffset
}

// CodeSectionOffset returns the method's start offset within the aggregate
// code section.  The offset must have been assigned.
func (info *MethodInfo) CodeSectionOffset() int {
	if !info.hasOffset {
		panic(fmt.Sprintf("code section offset not assigned (%s)", info.Name))
	}
	return info.codeSectionOffset
}

func (info *MethodInfo) SetCodeSectionOffset(offset int) {
	if offset < 0 {
		panic(fmt.Sprintf("negative code section offset (%s): %d", info.Name, offset))
	}

	if info.hasOffset {
		panic(fmt.Sprintf(
			"code section offset already assigned (%s): %d",
			info.Name,
			info.codeSectionOffset))
	}

	info.codeSectionOffset = offset
	info.hasOffset = true
}

func (info *MethodInfo) Validate(emitter *parseutil.Emitter) {
	if info.Name == "" {
		emitter.EmitErrors(fmt.Errorf("compiled method has no name"))
	}

	if len(info.Code) == 0 {
		emitter.EmitErrors(fmt.Errorf("compiled method (%s) has no code", info.Name))
	}

	for idx, mark := range info.Marks {
		if mark.Offset < 0 || mark.Offset >= len(info.Code) {
			emitter.EmitErrors(fmt.Errorf(
				"compiled method (%s) mark %d (%s) is outside code [0, %d)",
				info.Name,
				idx,
				mark,
				len(info.Code)))
		}
	}
}
