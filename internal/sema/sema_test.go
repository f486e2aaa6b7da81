package sema_test

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/X12-Cloud/Nytrogen/internal/ast"
	"github.com/X12-Cloud/Nytrogen/internal/parser"
	"github.com/X12-Cloud/Nytrogen/internal/sema"
	"github.com/X12-Cloud/Nytrogen/internal/symtab"
)

func analyzeSrc(t *testing.T, src string) (*ast.Program, *symtab.Table, error) {
	t.Helper()
	prog, err := parser.ParseProgram(src)
	be.Err(t, err, nil)
	table, err := sema.Analyze(prog)
	return prog, table, err
}

func TestAnalyzeAssignsOffsetsToLocals(t *testing.T) {
	prog, _, err := analyzeSrc(t, `
		int main() {
			int x = 1;
			int y = 2;
			return x + y;
		}
	`)
	be.Err(t, err, nil)
	decls := []*ast.VariableDeclaration{
		prog.Functions[0].Body[0].(*ast.VariableDeclaration),
		prog.Functions[0].Body[1].(*ast.VariableDeclaration),
	}
	for _, d := range decls {
		sym, ok := d.Symbol.(*symtab.Symbol)
		be.True(t, ok)
		be.True(t, sym.Offset < 0)
	}
	symX := decls[0].Symbol.(*symtab.Symbol)
	symY := decls[1].Symbol.(*symtab.Symbol)
	be.True(t, symY.Offset != symX.Offset)
}

func TestAnalyzeFirstSixParamsGetNegativeSpillSlots(t *testing.T) {
	prog, _, err := analyzeSrc(t, `
		int add(int a, int b) {
			return a + b;
		}
		int main() {
			return add(1, 2);
		}
	`)
	be.Err(t, err, nil)
	ret := prog.Functions[0].Body[0].(*ast.ReturnStatement)
	bin := ret.Expr.(*ast.BinaryOp)
	aRef := bin.Left.(*ast.VariableReference)
	bRef := bin.Right.(*ast.VariableReference)
	aSym, ok := aRef.Symbol.(*symtab.Symbol)
	be.True(t, ok)
	bSym, ok := bRef.Symbol.(*symtab.Symbol)
	be.True(t, ok)
	be.Equal(t, aSym.Offset, -8)
	be.Equal(t, bSym.Offset, -16)
}

func TestAnalyzeSeventhParamIsStackOffset(t *testing.T) {
	prog, _, err := analyzeSrc(t, `
		int sum7(int a, int b, int c, int d, int e, int f, int g) {
			return g;
		}
		int main() {
			return sum7(1, 2, 3, 4, 5, 6, 7);
		}
	`)
	be.Err(t, err, nil)
	ret := prog.Functions[0].Body[0].(*ast.ReturnStatement)
	gRef := ret.Expr.(*ast.VariableReference)
	sym, ok := gRef.Symbol.(*symtab.Symbol)
	be.True(t, ok)
	be.Equal(t, sym.Offset, 16)
}

func TestAnalyzeMissingMainIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int add(int a, int b) {
			return a + b;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeMainWithParamsIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int main(int argc) {
			return 0;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeUndeclaredVariableIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int main() {
			return y;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeTypeMismatchInBinaryOpIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int main() {
			int x = 5;
			int* p = &x;
			int y = 1 + p;
			return 0;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeAssignmentTypeMismatchIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int main() {
			int x = 1;
			bool b = true;
			x = b;
			return 0;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzePrivateMemberAccessIsRejected(t *testing.T) {
	prog, err := parser.ParseProgram(`
		struct Point {
			public int x;
			private int y;
		}
		int main() {
			Point p;
			return p.y;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzePublicMemberAccessSucceeds(t *testing.T) {
	_, _, err := analyzeSrc(t, `
		struct Point {
			public int x;
			private int y;
		}
		int main() {
			Point p;
			return p.x;
		}
	`)
	be.Err(t, err, nil)
}

func TestAnalyzeEnumMembersGetAscendingValues(t *testing.T) {
	prog, _, err := analyzeSrc(t, `
		enum Color {
			Red,
			Green,
			Blue
		}
		int main() {
			return Color.Blue;
		}
	`)
	be.Err(t, err, nil)
	ret := prog.Functions[0].Body[0].(*ast.ReturnStatement)
	member := ret.Expr.(*ast.MemberAccess)
	sym, ok := member.Symbol.(*symtab.Symbol)
	be.True(t, ok)
	be.Equal(t, sym.Kind, symtab.EnumMemberSym)
	be.Equal(t, sym.EnumValue, 2)
}

func TestAnalyzeConstantInlinesAtReference(t *testing.T) {
	prog, _, err := analyzeSrc(t, `
		int main() {
			const int limit = 10;
			return limit;
		}
	`)
	be.Err(t, err, nil)
	ret := prog.Functions[0].Body[1].(*ast.ReturnStatement)
	ref := ret.Expr.(*ast.VariableReference)
	sym, ok := ref.Symbol.(*symtab.Symbol)
	be.True(t, ok)
	be.Equal(t, sym.Kind, symtab.ConstantSym)
}

func TestAnalyzeRedeclarationInSameScopeIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int main() {
			int x = 1;
			int x = 2;
			return x;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeLogicalNotOnBoolSucceeds(t *testing.T) {
	_, _, err := analyzeSrc(t, `
		int main() {
			bool b = !true;
			return 0;
		}
	`)
	be.Err(t, err, nil)
}

func TestAnalyzeZeroSizeArrayDeclarationIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		int main() {
			int nums[0];
			return 0;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeStructMemberOfUndefinedStructIsError(t *testing.T) {
	prog, err := parser.ParseProgram(`
		struct Node {
			public Missing next;
		}
		int main() {
			return 0;
		}
	`)
	be.Err(t, err, nil)
	_, err = sema.Analyze(prog)
	be.True(t, err != nil)
}

func TestAnalyzeStructMemberOfAlreadyDefinedStructSucceeds(t *testing.T) {
	_, _, err := analyzeSrc(t, `
		struct Inner {
			public int v;
		}
		struct Outer {
			public Inner inner;
		}
		int main() {
			return 0;
		}
	`)
	be.Err(t, err, nil)
}
