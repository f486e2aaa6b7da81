// Package parser implements a recursive-descent parser: it turns a
// token stream into an AST rooted at *ast.Program, with a handful of
// lookahead-by-offset helpers to disambiguate top-level and
// statement-level constructs.
package parser

import (
	"fmt"
	"strconv"

	"github.com/X12-Cloud/Nytrogen/internal/ast"
	"github.com/X12-Cloud/Nytrogen/internal/lexer"
	"github.com/X12-Cloud/Nytrogen/internal/token"
	"github.com/X12-Cloud/Nytrogen/internal/types"
)

// ParseError reports a syntax error: an expected-token mismatch, an
// invalid assignment left-hand side, or an unexpected EOF. The offending
// token's line/column are always carried.
type ParseError struct {
	Message string
	Line    int
	Col     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s at line %d, column %d", e.Message, e.Line, e.Col)
}

// Parser consumes a fully-tokenized source (the lexer runs to completion
// before parsing starts — there is no interleaving between stages) and
// produces an *ast.Program.
type Parser struct {
	toks []token.Token
	pos  int

	// structNames tracks struct names seen so far so the parser can tell
	// `Point p;` (a declaration) apart from `p = 1;` (an expression
	// statement) with a bounded lookahead, without touching the real
	// symbol table — the semantic analyzer alone owns symbol-table
	// mutation, so this is the parser's own disambiguation aid, not the
	// table itself.
	structNames map[string]bool
}

// NewParser creates a Parser over the given token slice, which must end
// in an EOF token (as produced by lexer.Tokenize).
func NewParser(toks []token.Token) *Parser {
	return &Parser{toks: toks, structNames: make(map[string]bool)}
}

// ParseProgram parses a complete source file given as text, tokenizing it
// first. Returns the first lexical or syntax error
// encountered, if any.
func ParseProgram(src string) (*ast.Program, error) {
	toks, lexErrs := lexer.Tokenize(src)
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	p := NewParser(toks)
	return p.Parse()
}

func (p *Parser) cur() token.Token  { return p.peek(0) }
func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.errorf("expected %s, got %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: p.cur().Line, Col: p.cur().Col}
}

// Parse runs the top-level dispatch loop until EOF.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Kind != token.EOF {
		switch p.cur().Kind {
		case token.STRUCT:
			def, err := p.parseStructDefinition()
			if err != nil {
				return nil, err
			}
			prog.Structs = append(prog.Structs, def)
			p.consumeOptionalSemi()
		case token.ENUM:
			def, err := p.parseEnumDefinition()
			if err != nil {
				return nil, err
			}
			prog.Enums = append(prog.Enums, def)
			p.consumeOptionalSemi()
		case token.EXTERN:
			fn, err := p.parseExternFunction()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, fn)
		default:
			if p.looksLikeFunctionDef() {
				fn, err := p.parseFunctionDefinition()
				if err != nil {
					return nil, err
				}
				prog.Functions = append(prog.Functions, fn)
				continue
			}
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, nil
}

func (p *Parser) consumeOptionalSemi() {
	if p.cur().Kind == token.SEMI {
		p.advance()
	}
}

// ---- lookahead classification ------------------------------------------

func (p *Parser) startsType(tok token.Token) bool {
	switch tok.Kind {
	case token.INT, token.STRING, token.BOOL, token.CHAR, token.VOID:
		return true
	case token.IDENT:
		return p.structNames[tok.Lexeme]
	}
	return false
}

// typeTokenSpan returns how many tokens, starting at offset off, make up a
// type (base type plus any '*' pointer markers), or -1 if off does not
// start a type.
func (p *Parser) typeTokenSpan(off int) int {
	if !p.startsType(p.peek(off)) {
		return -1
	}
	n := off + 1
	for p.peek(n).Kind == token.STAR {
		n++
	}
	return n - off
}

// looksLikeFunctionDef implements the top-level dispatch rule: a type
// followed by an identifier followed by `(` is a function definition.
func (p *Parser) looksLikeFunctionDef() bool {
	span := p.typeTokenSpan(0)
	if span < 0 {
		return false
	}
	if p.peek(span).Kind != token.IDENT {
		return false
	}
	return p.peek(span + 1).Kind == token.LPAREN
}

// looksLikeDeclaration recognizes `type name` (optionally `type name[n]` or
// `type name = expr`), i.e. any declarator that is not a function def.
func (p *Parser) looksLikeDeclaration() bool {
	span := p.typeTokenSpan(0)
	if span < 0 {
		return false
	}
	return p.peek(span).Kind == token.IDENT && p.peek(span+1).Kind != token.LPAREN
}

// ---- types ---------------------------------------------------------------

func (p *Parser) parseType() (*ast.TypeExpr, error) {
	var base *ast.TypeExpr
	switch p.cur().Kind {
	case token.INT:
		p.advance()
		base = &ast.TypeExpr{Category: types.Primitive, Prim: types.IntType}
	case token.STRING:
		p.advance()
		base = &ast.TypeExpr{Category: types.Primitive, Prim: types.StringType}
	case token.BOOL:
		p.advance()
		base = &ast.TypeExpr{Category: types.Primitive, Prim: types.BoolType}
	case token.CHAR:
		p.advance()
		base = &ast.TypeExpr{Category: types.Primitive, Prim: types.CharType}
	case token.VOID:
		p.advance()
		base = &ast.TypeExpr{Category: types.Primitive, Prim: types.VoidType}
	case token.IDENT:
		name := p.advance().Lexeme
		base = &ast.TypeExpr{Category: types.Struct, StructName: name}
	default:
		return nil, p.errorf("expected a type, got %s", p.cur().Kind)
	}
	for p.cur().Kind == token.STAR {
		p.advance()
		base = &ast.TypeExpr{Category: types.Pointer, Base: base}
	}
	return base, nil
}

// parseOptionalArraySuffix consumes a trailing `[n]` declarator, as used
// by both local variable declarations and struct members.
func (p *Parser) parseOptionalArraySuffix(base *ast.TypeExpr) (*ast.TypeExpr, error) {
	if p.cur().Kind != token.LBRACK {
		return base, nil
	}
	p.advance()
	sizeTok, err := p.expect(token.INT_LITERAL)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	n, _ := strconv.Atoi(sizeTok.Lexeme)
	return &ast.TypeExpr{Category: types.Array, Base: base, ArrayLen: n}, nil
}

// ---- struct / enum -------------------------------------------------------

func (p *Parser) parseStructDefinition() (*ast.StructDefinition, error) {
	startTok := p.advance() // 'struct'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	def := &ast.StructDefinition{Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Name: nameTok.Lexeme}
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		public := true
		if p.cur().Kind == token.PUBLIC {
			p.advance()
		} else if p.cur().Kind == token.PRIVATE {
			public = false
			p.advance()
		}
		memberType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		memberNameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		memberType, err = p.parseOptionalArraySuffix(memberType)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		def.Members = append(def.Members, &ast.StructMember{
			Name:     memberNameTok.Lexeme,
			DeclType: memberType,
			Public:   public,
		})
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	p.structNames[def.Name] = true
	return def, nil
}

func (p *Parser) parseEnumDefinition() (*ast.EnumDefinition, error) {
	startTok := p.advance() // 'enum'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	def := &ast.EnumDefinition{Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Name: nameTok.Lexeme}
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		memberTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		def.Members = append(def.Members, memberTok.Lexeme)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return def, nil
}

// ---- functions ------------------------------------------------------------

func (p *Parser) parseParams() ([]*ast.Parameter, error) {
	var params []*ast.Parameter
	if p.cur().Kind == token.RPAREN {
		return params, nil
	}
	for {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Parameter{Name: nameTok.Lexeme, DeclType: typ})
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseFunctionDefinition() (*ast.FunctionDefinition, error) {
	startLine, startCol := p.cur().Line, p.cur().Col
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDefinition{
		Node:       ast.Node{Line: startLine, Col: startCol},
		Name:       nameTok.Lexeme,
		ReturnType: retType,
		Params:     params,
		Body:       body,
	}, nil
}

// parseExternFunction handles `extern <type> <name>(<params>);`, which
// declares a function defined elsewhere (typically libc) with no body
// of its own.
func (p *Parser) parseExternFunction() (*ast.FunctionDefinition, error) {
	startTok := p.advance() // 'extern'
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.FunctionDefinition{
		Node:       ast.Node{Line: startTok.Line, Col: startTok.Col},
		Name:       nameTok.Lexeme,
		ReturnType: retType,
		Params:     params,
		Extern:     true,
	}, nil
}

// ---- statements -----------------------------------------------------------

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrint()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.ASM:
		return p.parseAsm()
	case token.CONST:
		return p.parseConst()
	case token.STRUCT:
		def, err := p.parseStructDefinition()
		if err != nil {
			return nil, err
		}
		p.consumeOptionalSemi()
		return def, nil
	case token.ENUM:
		def, err := p.parseEnumDefinition()
		if err != nil {
			return nil, err
		}
		p.consumeOptionalSemi()
		return def, nil
	case token.LBRACE:
		stmts, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		// A bare nested block has no dedicated block-statement AST node;
		// it is modeled as a single always-taken IfStatement, so no new AST
		// node kind is needed. Like any if statement it opens no scope of
		// its own: its declarations live in the enclosing scope.
		return &ast.IfStatement{Cond: &ast.BoolLiteral{Value: true}, ThenBlock: stmts}, nil
	default:
		if p.looksLikeDeclaration() {
			return p.parseVariableDeclaration()
		}
		return p.parseExprStatement()
	}
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	startTok := p.advance()
	var expr ast.Expr
	if p.cur().Kind != token.SEMI {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr = e
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Expr: expr}, nil
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	startTok := p.advance()
	var args []ast.Expr
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.PrintStatement{Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Args: args}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	startTok := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock []ast.Stmt
	if p.cur().Kind == token.ELSE {
		p.advance()
		if p.cur().Kind == token.IF {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elseBlock = []ast.Stmt{elseIf}
		} else {
			elseBlock, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
	}
	return &ast.IfStatement{
		Node:      ast.Node{Line: startTok.Line, Col: startTok.Col},
		Cond:      cond,
		ThenBlock: thenBlock,
		ElseBlock: elseBlock,
	}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	startTok := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	startTok := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var initStmt ast.Stmt
	if p.cur().Kind != token.SEMI {
		var err error
		if p.looksLikeDeclaration() {
			initStmt, err = p.parseVariableDeclaration()
		} else {
			initStmt, err = p.parseExprStatement()
		}
		if err != nil {
			return nil, err
		}
	} else {
		p.advance() // bare ';'
	}
	var cond ast.Expr
	if p.cur().Kind != token.SEMI {
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	var step ast.Stmt
	if p.cur().Kind != token.RPAREN {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		step = &ast.ExprStatement{Expr: e}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{
		Node: ast.Node{Line: startTok.Line, Col: startTok.Col},
		Init: initStmt, Cond: cond, Step: step, Body: body,
	}, nil
}

func (p *Parser) parseAsm() (ast.Stmt, error) {
	startTok := p.advance()
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var lines []string
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		lit, err := p.expect(token.STRING_LITERAL)
		if err != nil {
			return nil, p.errorf("only string literals are allowed inside asm blocks")
		}
		lines = append(lines, lit.Lexeme)
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.AsmStatement{Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Lines: lines}, nil
}

func (p *Parser) parseConst() (ast.Stmt, error) {
	startTok := p.advance()
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ConstDeclaration{
		Node: ast.Node{Line: startTok.Line, Col: startTok.Col}, Name: nameTok.Lexeme, DeclType: typ, Value: value,
	}, nil
}

func (p *Parser) parseVariableDeclaration() (ast.Stmt, error) {
	startLine, startCol := p.cur().Line, p.cur().Col
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	typ, err = p.parseOptionalArraySuffix(typ)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.cur().Kind == token.ASSIGN {
		p.advance()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VariableDeclaration{
		Node: ast.Node{Line: startLine, Col: startCol}, Name: nameTok.Lexeme, DeclType: typ, Initializer: init,
	}, nil
}

func (p *Parser) parseExprStatement() (ast.Stmt, error) {
	startLine, startCol := p.cur().Line, p.cur().Col
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExprStatement{Node: ast.Node{Line: startLine, Col: startCol}, Expr: e}, nil
}

// ---- expressions ------------------------------------------------------------
//
// Ascending precedence:
//   1. assignment (right-assoc, lowest)
//   2. comparison
//   3. additive
//   4. multiplicative
//   5. unary prefix
//   6. postfix chain
//   7. primary

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.ASSIGN {
		return left, nil
	}
	switch left.(type) {
	case *ast.VariableReference, *ast.MemberAccess, *ast.ArrayAccess:
	default:
		return nil, p.errorf("invalid assignment target")
	}
	assignTok := p.advance()
	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(assignTok.Line, assignTok.Col, left, right), nil
}

var comparisonOps = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=", token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=",
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Kind]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opTok.Line, opTok.Col, op, left, right)
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.PLUS || p.cur().Kind == token.MINUS {
		op := "+"
		if p.cur().Kind == token.MINUS {
			op = "-"
		}
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opTok.Line, opTok.Col, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.STAR || p.cur().Kind == token.SLASH {
		op := "*"
		if p.cur().Kind == token.SLASH {
			op = "/"
		}
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opTok.Line, opTok.Col, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur().Kind {
	case token.STAR, token.AMP, token.BANG:
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(opTok.Line, opTok.Col, opTok.Lexeme, operand), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.DOT:
			dotTok := p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberAccess(dotTok.Line, dotTok.Col, expr, nameTok.Lexeme)
		case token.LBRACK:
			brTok := p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			expr = ast.NewArrayAccess(brTok.Line, brTok.Col, expr, idx)
		case token.LPAREN:
			ref, ok := expr.(*ast.VariableReference)
			if !ok {
				return nil, p.errorf("invalid call target")
			}
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			line, col := ref.Pos()
			expr = ast.NewFunctionCall(line, col, ref.Name, args)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.cur().Kind == token.RPAREN {
		return args, nil
	}
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.INT_LITERAL:
		p.advance()
		n, _ := strconv.Atoi(tok.Lexeme)
		return ast.NewIntLiteral(tok.Line, tok.Col, n), nil
	case token.STRING_LITERAL:
		p.advance()
		return ast.NewStringLiteral(tok.Line, tok.Col, tok.Lexeme), nil
	case token.CHAR_LITERAL:
		p.advance()
		var v byte
		if len(tok.Lexeme) > 0 {
			v = tok.Lexeme[0]
		}
		return ast.NewCharLiteral(tok.Line, tok.Col, v), nil
	case token.TRUE:
		p.advance()
		return ast.NewBoolLiteral(tok.Line, tok.Col, true), nil
	case token.FALSE:
		p.advance()
		return ast.NewBoolLiteral(tok.Line, tok.Col, false), nil
	case token.IDENT:
		p.advance()
		return ast.NewVariableReference(tok.Line, tok.Col, tok.Lexeme), nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.errorf("unexpected token %s", tok.Kind)
}
