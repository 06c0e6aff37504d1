package linker

import (
	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
	"github.com/pattyshack/aotlink/util"
)

// SeedRuntimeGot creates the GOT slot of every runtime-address role the
// target configuration provides.  Seeding is idempotent and must run before
// any mark is processed.
func SeedRuntimeGot(
	container *binformat.Container,
) util.Pass[[]*compiled.MethodInfo] {
	return util.PassFunc[[]*compiled.MethodInfo](
		func([]*compiled.MethodInfo) {
			SeedRuntimeGotSymbols(container)
		})
}

func SeedRuntimeGotSymbols(container *binformat.Container) []*binformat.Symbol {
	symbols := []*binformat.Symbol{}
	for _, role := range binformat.RuntimeAddressRoles() {
		if !container.RoleEnabled(role) {
			continue
		}

		name := binformat.GotSymbolName(container.RoleSymbolName(role))
		symbols = append(symbols, container.GetOrCreateGotSymbol(name))
	}
	return symbols
}
