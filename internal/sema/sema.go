// Package sema implements the semantic analyzer: a three-phase walk
// (register structs and enums, declare function signatures, then
// analyze bodies) that annotates the AST in place with resolved types
// and resolved symbols, and is the sole owner of symbol-table mutation.
//
// Grounded on
// _examples/original_source/bootstrap/src/semantic_analyzer.cpp, with one
// deliberate departure: that C++ analyzer never exits a function's scope
// after analyzing its body ("DO NOT exit scope — code generator needs
// it!"), which silently chains each function's locals under whichever
// scope was left current by the previous function. Because
// internal/symtab never deletes scopes, Analyze exits back to the global
// scope after each function instead — the archive already keeps every
// scope (and its offsets) reachable for the code generator, so nothing
// is lost by restoring Current correctly between sibling functions. See
// DESIGN.md.
package sema

import (
	"fmt"

	"github.com/X12-Cloud/Nytrogen/internal/ast"
	"github.com/X12-Cloud/Nytrogen/internal/symtab"
	"github.com/X12-Cloud/Nytrogen/internal/types"
)

// SemanticError reports a type error, an undeclared-name use, a
// redefinition, or a structural violation (bad main signature, missing
// main, private member access). Analysis aborts on the first one.
type SemanticError struct {
	Message string
	Line    int
	Col     int
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("SemanticError: %s at line %d, column %d", e.Message, e.Line, e.Col)
}

func errAt(line, col int, format string, args ...interface{}) *SemanticError {
	return &SemanticError{Message: fmt.Sprintf(format, args...), Line: line, Col: col}
}

type analyzer struct {
	table *symtab.Table
}

// Analyze runs the full three-phase analysis over prog and returns the
// populated symbol table. The table's global scope, and every function
// scope entered along the way, remain in Table.All for the code generator
// to read offsets from even though Current has moved on.
func Analyze(prog *ast.Program) (*symtab.Table, error) {
	a := &analyzer{table: symtab.New()}

	for _, def := range prog.Structs {
		if err := a.registerStruct(def); err != nil {
			return nil, err
		}
	}
	for _, def := range prog.Enums {
		if err := a.registerEnum(def); err != nil {
			return nil, err
		}
	}
	for _, fn := range prog.Functions {
		if err := a.declareFunction(fn); err != nil {
			return nil, err
		}
	}
	for _, stmt := range prog.Statements {
		if err := a.analyzeStmt(stmt); err != nil {
			return nil, err
		}
	}
	for _, fn := range prog.Functions {
		if fn.Extern {
			continue
		}
		if err := a.analyzeFunctionBody(fn); err != nil {
			return nil, err
		}
	}

	if err := a.checkMain(prog); err != nil {
		return nil, err
	}

	return a.table, nil
}

func (a *analyzer) checkMain(prog *ast.Program) error {
	for _, fn := range prog.Functions {
		if fn.Name != "main" {
			continue
		}
		retType := typeExprToType(fn.ReturnType)
		if !retType.IsInt() {
			return errAt(fn.Line, fn.Col, "'main' function must return int")
		}
		if len(fn.Params) != 0 {
			return errAt(fn.Line, fn.Col, "'main' function should have no parameters")
		}
		return nil
	}
	return errAt(prog.Line, prog.Col, "no 'main' function defined")
}

// ---- type-expression resolution ------------------------------------------

func typeExprToType(te *ast.TypeExpr) types.Type {
	switch te.Category {
	case types.Pointer:
		base := typeExprToType(te.Base)
		return types.NewPointer(base)
	case types.Array:
		base := typeExprToType(te.Base)
		return types.NewArray(base, te.ArrayLen)
	case types.Struct:
		return types.NewStruct(te.StructName)
	default:
		switch te.Prim {
		case types.IntType:
			return types.NewInt()
		case types.BoolType:
			return types.NewBool()
		case types.CharType:
			return types.NewChar()
		case types.StringType:
			return types.NewString()
		default:
			return types.NewVoid()
		}
	}
}

// ---- struct / enum registration ------------------------------------------

func (a *analyzer) registerStruct(def *ast.StructDefinition) error {
	offset := 0
	for _, m := range def.Members {
		memberType := typeExprToType(m.DeclType)
		if memberType.Category == types.Struct {
			if _, ok := a.table.LookupStruct(memberType.StructName); !ok {
				return errAt(def.Line, def.Col, "member '%s' has undefined struct type '%s'", m.Name, memberType.StructName)
			}
		}
		if memberType.Category == types.Array && memberType.ArrayLen <= 0 {
			return errAt(def.Line, def.Col, "member '%s' declared with non-positive array size", m.Name)
		}
		m.Offset = offset
		m.Size = memberType.Size(a.table)
		offset += m.Size
	}
	def.Size = offset
	a.table.RegisterStruct(def)
	a.table.Define(&symtab.Symbol{Kind: symtab.StructDefSym, Name: def.Name, StructNode: def})
	return nil
}

func (a *analyzer) registerEnum(def *ast.EnumDefinition) error {
	a.table.Define(&symtab.Symbol{Kind: symtab.EnumTypeSym, Name: def.Name, EnumNode: def})
	for i, member := range def.Members {
		a.table.Define(&symtab.Symbol{Kind: symtab.EnumMemberSym, Name: def.Name + "." + member, EnumNode: def, EnumValue: i})
	}
	return nil
}

func (a *analyzer) declareFunction(fn *ast.FunctionDefinition) error {
	if _, ok := a.table.Current.Lookup(fn.Name); ok {
		return errAt(fn.Line, fn.Col, "redefinition of function '%s'", fn.Name)
	}
	paramTypes := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = typeExprToType(p.DeclType)
	}
	a.table.Define(&symtab.Symbol{
		Kind:       symtab.FunctionSym,
		Name:       fn.Name,
		ReturnType: typeExprToType(fn.ReturnType),
		ParamTypes: paramTypes,
	})
	return nil
}

// ---- function bodies -------------------------------------------------------

// analyzeFunctionBody assigns each parameter its frame offset under the
// System V calling convention: the first six parameters arrive in
// rdi/rsi/rdx/rcx/r8/r9 and the prologue spills them into dedicated local
// slots at [rbp-8], [rbp-16], ...; only the seventh and later parameters
// are stack-passed by the caller and read directly from [rbp+16],
// [rbp+24], ... above the return address.
func (a *analyzer) analyzeFunctionBody(fn *ast.FunctionDefinition) error {
	a.table.EnterScope()
	const maxRegParams = 6
	stackOffset := 16
	regParams := len(fn.Params)
	if regParams > maxRegParams {
		regParams = maxRegParams
	}
	for i, p := range fn.Params {
		pt := typeExprToType(p.DeclType)
		size := pt.Size(a.table)
		var paramOffset int
		if i < maxRegParams {
			paramOffset = -(i + 1) * 8
		} else {
			paramOffset = stackOffset
			stackOffset += 8
		}
		a.table.Define(&symtab.Symbol{Kind: symtab.ParameterSym, Name: p.Name, DataType: pt, Offset: paramOffset, Size: size})
	}
	a.table.Current.CurrentOffset = -regParams * 8

	for _, stmt := range fn.Body {
		if err := a.analyzeStmt(stmt); err != nil {
			return err
		}
	}

	a.table.ExitScope()
	return nil
}

// ---- statements -------------------------------------------------------------

func (a *analyzer) analyzeStmt(stmt ast.Stmt) error {
	switch n := stmt.(type) {
	case *ast.VariableDeclaration:
		return a.analyzeVarDecl(n)
	case *ast.ConstDeclaration:
		return a.analyzeConstDecl(n)
	case *ast.ReturnStatement:
		if n.Expr != nil {
			_, err := a.analyzeExpr(n.Expr)
			return err
		}
		return nil
	case *ast.PrintStatement:
		for _, arg := range n.Args {
			if _, err := a.analyzeExpr(arg); err != nil {
				return err
			}
		}
		return nil
	case *ast.ExprStatement:
		_, err := a.analyzeExpr(n.Expr)
		return err
	case *ast.IfStatement:
		return a.analyzeIf(n)
	case *ast.WhileStatement:
		return a.analyzeWhile(n)
	case *ast.ForStatement:
		return a.analyzeFor(n)
	case *ast.AsmStatement:
		return nil
	case *ast.StructDefinition:
		return a.registerStruct(n)
	case *ast.EnumDefinition:
		return a.registerEnum(n)
	default:
		return errAt(0, 0, "unknown statement type encountered during analysis")
	}
}

func (a *analyzer) analyzeVarDecl(n *ast.VariableDeclaration) error {
	if _, ok := a.table.Current.Lookup(n.Name); ok {
		return errAt(n.Line, n.Col, "redefinition of variable '%s'", n.Name)
	}
	declType := typeExprToType(n.DeclType)
	if declType.Category == types.Array && declType.ArrayLen <= 0 {
		return errAt(n.Line, n.Col, "array '%s' declared with non-positive size", n.Name)
	}
	size := declType.Size(a.table)

	a.table.Current.CurrentOffset -= size
	offset := a.table.Current.CurrentOffset

	sym := &symtab.Symbol{Kind: symtab.VariableSym, Name: n.Name, DataType: declType, Offset: offset, Size: size}
	a.table.Define(sym)
	n.Symbol = sym

	if n.Initializer != nil {
		initType, err := a.analyzeExpr(n.Initializer)
		if err != nil {
			return err
		}
		if !initType.Equal(declType) {
			return errAt(n.Line, n.Col, "type mismatch in initialization of '%s'", n.Name)
		}
	}
	return nil
}

func (a *analyzer) analyzeConstDecl(n *ast.ConstDeclaration) error {
	if _, ok := a.table.Current.Lookup(n.Name); ok {
		return errAt(n.Line, n.Col, "redefinition of constant '%s'", n.Name)
	}
	declType := typeExprToType(n.DeclType)
	valueType, err := a.analyzeExpr(n.Value)
	if err != nil {
		return err
	}
	if !valueType.Equal(declType) {
		return errAt(n.Line, n.Col, "type mismatch in initialization of constant '%s'", n.Name)
	}
	a.table.Define(&symtab.Symbol{Kind: symtab.ConstantSym, Name: n.Name, DataType: declType, ConstExpr: n.Value})
	return nil
}

func (a *analyzer) analyzeIf(n *ast.IfStatement) error {
	condType, err := a.analyzeExpr(n.Cond)
	if err != nil {
		return err
	}
	if !condType.IsBool() {
		return errAt(n.Line, n.Col, "if condition must be a boolean expression")
	}
	for _, stmt := range n.ThenBlock {
		if err := a.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range n.ElseBlock {
		if err := a.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) analyzeWhile(n *ast.WhileStatement) error {
	condType, err := a.analyzeExpr(n.Cond)
	if err != nil {
		return err
	}
	if !condType.IsBool() {
		return errAt(n.Line, n.Col, "while condition must be a boolean expression")
	}
	a.table.EnterScope()
	for _, stmt := range n.Body {
		if err := a.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	a.table.ExitScope()
	return nil
}

func (a *analyzer) analyzeFor(n *ast.ForStatement) error {
	a.table.EnterScope()
	if n.Init != nil {
		if err := a.analyzeStmt(n.Init); err != nil {
			return err
		}
	}
	if n.Cond != nil {
		condType, err := a.analyzeExpr(n.Cond)
		if err != nil {
			return err
		}
		if !condType.IsBool() {
			return errAt(n.Line, n.Col, "for condition must be a boolean expression")
		}
	}
	if n.Step != nil {
		if err := a.analyzeStmt(n.Step); err != nil {
			return err
		}
	}
	for _, stmt := range n.Body {
		if err := a.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	a.table.ExitScope()
	return nil
}

// ---- expressions -------------------------------------------------------------

func (a *analyzer) analyzeExpr(expr ast.Expr) (types.Type, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		t := types.NewInt()
		n.SetType(t)
		return t, nil
	case *ast.StringLiteral:
		t := types.NewString()
		n.SetType(t)
		return t, nil
	case *ast.BoolLiteral:
		t := types.NewBool()
		n.SetType(t)
		return t, nil
	case *ast.CharLiteral:
		t := types.NewChar()
		n.SetType(t)
		return t, nil
	case *ast.VariableReference:
		return a.analyzeVarRef(n)
	case *ast.BinaryOp:
		return a.analyzeBinaryOp(n)
	case *ast.Assignment:
		return a.analyzeAssignment(n)
	case *ast.FunctionCall:
		return a.analyzeCall(n)
	case *ast.MemberAccess:
		return a.analyzeMemberAccess(n)
	case *ast.UnaryOp:
		return a.analyzeUnaryOp(n)
	case *ast.ArrayAccess:
		return a.analyzeArrayAccess(n)
	default:
		return types.Type{}, errAt(0, 0, "unexpected expression node in semantic analysis")
	}
}

func (a *analyzer) analyzeVarRef(n *ast.VariableReference) (types.Type, error) {
	sym, ok := a.table.Lookup(n.Name)
	if !ok {
		return types.Type{}, errAt(n.Line, n.Col, "use of undeclared variable '%s'", n.Name)
	}
	n.Symbol = sym
	t := sym.DataType.Clone()
	n.SetType(t)
	return t, nil
}

func (a *analyzer) analyzeBinaryOp(n *ast.BinaryOp) (types.Type, error) {
	leftType, err := a.analyzeExpr(n.Left)
	if err != nil {
		return types.Type{}, err
	}
	rightType, err := a.analyzeExpr(n.Right)
	if err != nil {
		return types.Type{}, err
	}
	if !leftType.SameCategory(rightType) {
		return types.Type{}, errAt(n.Line, n.Col, "type mismatch in binary operation")
	}
	var resolved types.Type
	switch n.Op {
	case "==", "!=", "<", ">", "<=", ">=":
		resolved = types.NewBool()
	default:
		resolved = leftType
	}
	n.SetType(resolved)
	return resolved, nil
}

func (a *analyzer) analyzeAssignment(n *ast.Assignment) (types.Type, error) {
	leftType, err := a.analyzeExpr(n.LHS)
	if err != nil {
		return types.Type{}, err
	}
	rightType, err := a.analyzeExpr(n.RHS)
	if err != nil {
		return types.Type{}, err
	}
	if !leftType.Equal(rightType) {
		return types.Type{}, errAt(n.Line, n.Col, "type mismatch in assignment")
	}
	n.SetType(leftType)
	return leftType, nil
}

func (a *analyzer) analyzeCall(n *ast.FunctionCall) (types.Type, error) {
	sym, ok := a.table.Lookup(n.Name)
	if !ok || sym.Kind != symtab.FunctionSym {
		return types.Type{}, errAt(n.Line, n.Col, "call to undeclared function '%s'", n.Name)
	}
	n.Symbol = sym
	if len(n.Args) != len(sym.ParamTypes) {
		return types.Type{}, errAt(n.Line, n.Col, "function '%s' expects %d arguments, but %d were provided",
			n.Name, len(sym.ParamTypes), len(n.Args))
	}
	for i, arg := range n.Args {
		argType, err := a.analyzeExpr(arg)
		if err != nil {
			return types.Type{}, err
		}
		if !argType.Equal(sym.ParamTypes[i]) {
			return types.Type{}, errAt(n.Line, n.Col, "type mismatch in argument %d of function '%s'", i+1, n.Name)
		}
	}
	t := sym.ReturnType.Clone()
	n.SetType(t)
	return t, nil
}

// analyzeMemberAccess handles both struct field access and the
// `EnumName.Member` qualified reference, which shares the `.` grammar
// but resolves to a constant-folded int rather than a field offset.
func (a *analyzer) analyzeMemberAccess(n *ast.MemberAccess) (types.Type, error) {
	if ref, ok := n.StructExpr.(*ast.VariableReference); ok {
		if enumSym, ok := a.table.Lookup(ref.Name); ok && enumSym.Kind == symtab.EnumTypeSym {
			memberSym, ok := a.table.Lookup(ref.Name + "." + n.Member)
			if !ok {
				return types.Type{}, errAt(n.Line, n.Col, "enum '%s' has no member named '%s'", ref.Name, n.Member)
			}
			n.Symbol = memberSym
			t := types.NewInt()
			n.SetType(t)
			return t, nil
		}
	}

	baseType, err := a.analyzeExpr(n.StructExpr)
	if err != nil {
		return types.Type{}, err
	}
	if baseType.Category != types.Struct {
		return types.Type{}, errAt(n.Line, n.Col, "member access operator '.' used on non-struct type")
	}
	def, ok := a.table.LookupStruct(baseType.StructName)
	if !ok {
		return types.Type{}, errAt(n.Line, n.Col, "undefined struct '%s'", baseType.StructName)
	}
	for _, m := range def.Members {
		if m.Name != n.Member {
			continue
		}
		if !m.Public {
			return types.Type{}, errAt(n.Line, n.Col, "member '%s' is private", n.Member)
		}
		memberType := typeExprToType(m.DeclType)
		n.Symbol = &symtab.Symbol{Kind: symtab.StructMemberSym, Name: m.Name, DataType: memberType, Offset: m.Offset, Size: m.Size}
		n.SetType(memberType)
		return memberType, nil
	}
	return types.Type{}, errAt(n.Line, n.Col, "struct '%s' has no member named '%s'", baseType.StructName, n.Member)
}

func (a *analyzer) analyzeUnaryOp(n *ast.UnaryOp) (types.Type, error) {
	operandType, err := a.analyzeExpr(n.Operand)
	if err != nil {
		return types.Type{}, err
	}
	switch n.Op {
	case "&":
		ref, ok := n.Operand.(*ast.VariableReference)
		if !ok {
			return types.Type{}, errAt(n.Line, n.Col, "address-of operator '&' can only be applied to variables")
		}
		n.Symbol = ref.Symbol
		t := types.NewPointer(operandType)
		n.SetType(t)
		return t, nil
	case "*":
		if operandType.Category != types.Pointer {
			return types.Type{}, errAt(n.Line, n.Col, "dereference operator '*' can only be applied to pointer types")
		}
		t := operandType.Base.Clone()
		n.SetType(t)
		return t, nil
	case "!":
		if !operandType.IsBool() {
			return types.Type{}, errAt(n.Line, n.Col, "logical not operator '!' can only be applied to bool")
		}
		t := types.NewBool()
		n.SetType(t)
		return t, nil
	default:
		return types.Type{}, errAt(n.Line, n.Col, "unknown unary operator '%s'", n.Op)
	}
}

func (a *analyzer) analyzeArrayAccess(n *ast.ArrayAccess) (types.Type, error) {
	arrayType, err := a.analyzeExpr(n.ArrayExpr)
	if err != nil {
		return types.Type{}, err
	}
	indexType, err := a.analyzeExpr(n.IndexExpr)
	if err != nil {
		return types.Type{}, err
	}
	if arrayType.Category != types.Array {
		return types.Type{}, errAt(n.Line, n.Col, "array access operator '[]' used on non-array type")
	}
	if !indexType.IsInt() {
		return types.Type{}, errAt(n.Line, n.Col, "array index must be an integer")
	}
	elemType := arrayType.Base.Clone()
	n.Symbol = &symtab.Symbol{Kind: symtab.VariableSym, DataType: elemType, Size: elemType.Size(a.table)}
	n.SetType(elemType)
	return elemType, nil
}
