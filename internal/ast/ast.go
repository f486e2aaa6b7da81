// Package ast defines the Nytrogen abstract syntax tree. The parser builds
// it, the semantic analyzer annotates it in place with resolved types and
// symbols, and the code generator reads it read-only.
package ast

import "github.com/X12-Cloud/Nytrogen/internal/types"

// Symbol is the minimal view of a symtab.Symbol that ast needs. Keeping it
// as an interface here (rather than importing internal/symtab directly)
// breaks an import cycle: a struct-definition Symbol in symtab holds a
// reference back to its StructDefinition AST node, so symtab must
// import ast; ast cannot import symtab back.
type Symbol interface {
	SymbolName() string
}

// Node is embedded by every AST node to carry its source position.
type Node struct {
	Line int
	Col  int
}

func (n Node) Pos() (int, int) { return n.Line, n.Col }

// Expr is implemented by every expression node. Type() returns nil until
// semantic analysis has set it.
type Expr interface {
	Pos() (int, int)
	exprNode()
	Type() *types.Type
	SetType(t types.Type)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// exprBase factors out the ResolvedType bookkeeping shared by every
// expression node.
type exprBase struct {
	Node
	resolved *types.Type
}

func (e *exprBase) exprNode() {}
func (e *exprBase) Type() *types.Type { return e.resolved }
func (e *exprBase) SetType(t types.Type) { e.resolved = &t }

// symBase factors out the ResolvedSymbol bookkeeping shared by the node
// kinds that carry one: variable-reference, variable-declaration,
// function-call, member-access, unary-op, array-access.
type symBase struct {
	Symbol Symbol
}

// ---- Types grammar (parsed type expressions) -------------------------

// TypeExpr is the parser's representation of a parsed type before it is
// turned into a types.Type by the semantic analyzer (struct base types are
// just names at parse time; the analyzer resolves them).
type TypeExpr struct {
	Category   types.Category
	Prim       types.PrimKind
	Base       *TypeExpr
	ArrayLen   int
	StructName string
}

// ---- Literals ----------------------------------------------------------

type IntLiteral struct {
	exprBase
	Value int
}

type StringLiteral struct {
	exprBase
	Value string
}

type BoolLiteral struct {
	exprBase
	Value bool
}

type CharLiteral struct {
	exprBase
	Value byte
}

// ---- Expression constructors --------------------------------------------
//
// exprBase and symBase are unexported, so packages outside ast (the
// parser) cannot populate them via a composite literal directly; these
// constructors are the parser's only way to stamp source position onto a
// freshly-built expression node.

func NewIntLiteral(line, col, value int) *IntLiteral {
	return &IntLiteral{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Value: value}
}

func NewStringLiteral(line, col int, value string) *StringLiteral {
	return &StringLiteral{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Value: value}
}

func NewBoolLiteral(line, col int, value bool) *BoolLiteral {
	return &BoolLiteral{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Value: value}
}

func NewCharLiteral(line, col int, value byte) *CharLiteral {
	return &CharLiteral{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Value: value}
}

func NewVariableReference(line, col int, name string) *VariableReference {
	return &VariableReference{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Name: name}
}

func NewMemberAccess(line, col int, structExpr Expr, member string) *MemberAccess {
	return &MemberAccess{exprBase: exprBase{Node: Node{Line: line, Col: col}}, StructExpr: structExpr, Member: member}
}

func NewArrayAccess(line, col int, arrayExpr, indexExpr Expr) *ArrayAccess {
	return &ArrayAccess{exprBase: exprBase{Node: Node{Line: line, Col: col}}, ArrayExpr: arrayExpr, IndexExpr: indexExpr}
}

func NewUnaryOp(line, col int, op string, operand Expr) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Op: op, Operand: operand}
}

func NewBinaryOp(line, col int, op string, left, right Expr) *BinaryOp {
	return &BinaryOp{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Op: op, Left: left, Right: right}
}

func NewFunctionCall(line, col int, name string, args []Expr) *FunctionCall {
	return &FunctionCall{exprBase: exprBase{Node: Node{Line: line, Col: col}}, Name: name, Args: args}
}

func NewAssignment(line, col int, lhs, rhs Expr) *Assignment {
	return &Assignment{exprBase: exprBase{Node: Node{Line: line, Col: col}}, LHS: lhs, RHS: rhs}
}

// ---- Expressions --------------------------------------------------------

type VariableReference struct {
	exprBase
	symBase
	Name string
}

type MemberAccess struct {
	exprBase
	symBase
	StructExpr Expr
	Member     string
}

type ArrayAccess struct {
	exprBase
	symBase
	ArrayExpr Expr
	IndexExpr Expr
}

type UnaryOp struct {
	exprBase
	symBase
	Op      string // "*", "&", "!"
	Operand Expr
}

type BinaryOp struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

type FunctionCall struct {
	exprBase
	symBase
	Name string
	Args []Expr
}

type Assignment struct {
	exprBase
	LHS Expr
	RHS Expr
}

// ---- Statements ---------------------------------------------------------

type VariableDeclaration struct {
	Node
	symBase
	Name        string
	DeclType    *TypeExpr
	Initializer Expr
}

func (*VariableDeclaration) stmtNode() {}

type ReturnStatement struct {
	Node
	Expr Expr // may be nil for void returns
}

func (*ReturnStatement) stmtNode() {}

type PrintStatement struct {
	Node
	Args []Expr
}

func (*PrintStatement) stmtNode() {}

type ExprStatement struct {
	Node
	Expr Expr
}

func (*ExprStatement) stmtNode() {}

type IfStatement struct {
	Node
	Cond      Expr
	ThenBlock []Stmt
	ElseBlock []Stmt
}

func (*IfStatement) stmtNode() {}

type WhileStatement struct {
	Node
	Cond Expr
	Body []Stmt
}

func (*WhileStatement) stmtNode() {}

type ForStatement struct {
	Node
	Init Stmt // may be nil
	Cond Expr // may be nil
	Step Stmt // may be nil
	Body []Stmt
}

func (*ForStatement) stmtNode() {}

type AsmStatement struct {
	Node
	Lines []string
}

func (*AsmStatement) stmtNode() {}

type ConstDeclaration struct {
	Node
	Name     string
	DeclType *TypeExpr
	Value    Expr
}

func (*ConstDeclaration) stmtNode() {}

// ---- Struct / enum / function definitions ------------------------------

type StructMember struct {
	Name     string
	DeclType *TypeExpr
	Public   bool
	Offset   int // filled in by the analyzer
	Size     int // filled in by the analyzer
}

type StructDefinition struct {
	Node
	Name    string
	Members []*StructMember
	Size    int // filled in by the analyzer
}

func (*StructDefinition) stmtNode() {}

type EnumDefinition struct {
	Node
	Name    string
	Members []string
}

func (*EnumDefinition) stmtNode() {}

type Parameter struct {
	Name     string
	DeclType *TypeExpr
}

type FunctionDefinition struct {
	Node
	Name       string
	ReturnType *TypeExpr
	Params     []*Parameter
	Body       []Stmt
	Extern     bool // declaration only, no body emitted
}

// ---- Program -------------------------------------------------------------

// Program is the AST root: an ordered list of top-level statements and an
// ordered list of function definitions, plus the set of struct
// definitions.
type Program struct {
	Node
	Statements []Stmt
	Functions  []*FunctionDefinition
	Structs    []*StructDefinition
	Enums      []*EnumDefinition
}
