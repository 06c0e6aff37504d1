package linker

import (
	"fmt"

	"github.com/pattyshack/gt/parseutil"

	"github.com/pattyshack/aotlink/compiled"
	"github.com/pattyshack/aotlink/util"
)

type methodValidator struct {
	*parseutil.Emitter
}

// ValidateMethods checks every method independently, in parallel.  Errors
// are merged into the emitter in method order.
func ValidateMethods(emitter *parseutil.Emitter) util.Pass[[]*compiled.MethodInfo] {
	return &methodValidator{
		Emitter: emitter,
	}
}

func (validator *methodValidator) Process(methods []*compiled.MethodInfo) {
	methodEmitters := make(map[*compiled.MethodInfo]*parseutil.Emitter, len(methods))
	for _, method := range methods {
		methodEmitters[method] = &parseutil.Emitter{}
	}

	util.ParallelProcess(
		methods,
		func(method *compiled.MethodInfo) {
			method.Validate(methodEmitters[method])
		})

	for _, method := range methods {
		validator.EmitErrors(methodEmitters[method].Errors()...)
	}

	validator.checkDuplicateNames(methods)
}

func (validator *methodValidator) checkDuplicateNames(
	methods []*compiled.MethodInfo,
) {
	seen := map[string]int{}
	for idx, method := range methods {
		prev, ok := seen[method.Name]
		if ok {
			validator.EmitErrors(fmt.Errorf(
				"method (%s) at index %d previously defined at index %d",
				method.Name,
				idx,
				prev))
			continue
		}

		seen[method.Name] = idx
	}
}
