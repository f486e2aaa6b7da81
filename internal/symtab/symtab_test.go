package symtab_test

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/X12-Cloud/Nytrogen/internal/ast"
	"github.com/X12-Cloud/Nytrogen/internal/symtab"
	"github.com/X12-Cloud/Nytrogen/internal/types"
)

func TestNewTableHasOneGlobalScope(t *testing.T) {
	table := symtab.New()
	be.Equal(t, len(table.All), 1)
	be.True(t, table.Current == table.All[0])
}

func TestDefineAndLookupInSameScope(t *testing.T) {
	table := symtab.New()
	sym := &symtab.Symbol{Kind: symtab.VariableSym, Name: "x", DataType: types.Type{Category: types.Primitive}}
	table.Define(sym)

	got, ok := table.Lookup("x")
	be.True(t, ok)
	be.True(t, got == sym)
}

func TestLookupMissesUnknownName(t *testing.T) {
	table := symtab.New()
	_, ok := table.Lookup("nope")
	be.True(t, !ok)
}

func TestEnterScopeShadowsOuterDefinition(t *testing.T) {
	table := symtab.New()
	outer := &symtab.Symbol{Kind: symtab.VariableSym, Name: "x"}
	table.Define(outer)

	table.EnterScope()
	inner := &symtab.Symbol{Kind: symtab.VariableSym, Name: "x"}
	table.Define(inner)

	got, ok := table.Lookup("x")
	be.True(t, ok)
	be.True(t, got == inner)
}

func TestExitScopeRestoresOuterVisibility(t *testing.T) {
	table := symtab.New()
	outer := &symtab.Symbol{Kind: symtab.VariableSym, Name: "x"}
	table.Define(outer)

	table.EnterScope()
	inner := &symtab.Symbol{Kind: symtab.VariableSym, Name: "x"}
	table.Define(inner)
	table.ExitScope()

	got, ok := table.Lookup("x")
	be.True(t, ok)
	be.True(t, got == outer)
}

func TestExitedScopeStaysArchivedInAll(t *testing.T) {
	table := symtab.New()
	child := table.EnterScope()
	sym := &symtab.Symbol{Kind: symtab.VariableSym, Name: "y"}
	table.Define(sym)
	table.ExitScope()

	be.Equal(t, len(table.All), 2)
	got, ok := child.Lookup("y")
	be.True(t, ok)
	be.True(t, got == sym)
}

func TestExitScopeOnGlobalScopeIsNoop(t *testing.T) {
	table := symtab.New()
	global := table.Current
	table.ExitScope()
	be.True(t, table.Current == global)
}

func TestLookupSearchesAncestorChain(t *testing.T) {
	table := symtab.New()
	table.Define(&symtab.Symbol{Kind: symtab.VariableSym, Name: "a"})
	table.EnterScope()
	table.EnterScope()

	_, ok := table.Lookup("a")
	be.True(t, ok)
}

func TestRegisterAndLookupStruct(t *testing.T) {
	table := symtab.New()
	def := &ast.StructDefinition{Name: "Point", Size: 8}
	table.RegisterStruct(def)

	got, ok := table.LookupStruct("Point")
	be.True(t, ok)
	be.True(t, got == def)

	size, ok := table.StructSize("Point")
	be.True(t, ok)
	be.Equal(t, size, 8)
}

func TestStructSizeMissingStructReturnsFalse(t *testing.T) {
	table := symtab.New()
	_, ok := table.StructSize("Nope")
	be.True(t, !ok)
}

func TestSymbolNameImplementsAstSymbol(t *testing.T) {
	sym := &symtab.Symbol{Kind: symtab.VariableSym, Name: "count"}
	var asSymbol ast.Symbol = sym
	be.Equal(t, asSymbol.SymbolName(), "count")
}
