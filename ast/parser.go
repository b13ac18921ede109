package ast

import (
	"strconv"
	"strings"

	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/lexer"
)

// Parser is a recursive-descent, single-pass parser over a token
// stream. Precedence climbing handles expressions; statement and
// declaration dispatch is a direct switch on the current token, in the
// same style as a conventional hand-written language-tooling parser:
// advance/peek/check/match/expect, and synchronize() to resynchronize
// after an error by skipping to the next statement boundary.
type Parser struct {
	file  string
	toks  []lexer.Token   // comments filtered out
	lead  map[int]string  // index in toks -> concatenated leading comment text
	pos   int
	diags *diag.List
}

// New builds a Parser from a raw token stream (as produced by
// lexer.Lexer.Tokenize, comments included).
func New(file string, tokens []lexer.Token, diags *diag.List) *Parser {
	toks := make([]lexer.Token, 0, len(tokens))
	lead := make(map[int]string)
	var pending []string
	for _, t := range tokens {
		if t.Kind == lexer.KindComment {
			pending = append(pending, t.Text)
			continue
		}
		if len(pending) > 0 {
			lead[len(toks)] = strings.Join(pending, "\n")
			pending = nil
		}
		toks = append(toks, t)
	}
	return &Parser{file: file, toks: toks, lead: lead, diags: diags}
}

// ParseProgram parses an entire source file into a Program. Parse
// errors are recorded as diagnostics and the parser resynchronizes at
// the next statement/declaration boundary rather than aborting.
func (p *Parser) ParseProgram() *Program {
	prog := &Program{File: p.file}
	for !p.isAtEnd() {
		p.parseTopLevel(prog)
	}
	return prog
}

func (p *Parser) parseTopLevel(prog *Program) {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()

	attrs := p.parseAttributes()

	switch {
	case p.checkKeyword("import"):
		prog.Imports = append(prog.Imports, p.parseImport())

	case p.checkKeyword("struct") || p.checkIdent("interface") || p.checkIdent("type"):
		prog.Structs = append(prog.Structs, p.parseStructLike())

	case p.checkIdent("class"):
		prog.Classes = append(prog.Classes, p.parseClass())

	case p.checkKeyword("export"):
		p.advance()
		p.parseTopLevel(prog) // re-dispatch on the following declaration

	case p.checkKeyword("function") || p.checkKeyword("fn"):
		prog.Shaders = append(prog.Shaders, p.parseFunction(attrs))

	case p.checkKeyword("const") || p.checkKeyword("let") || p.checkKeyword("var"):
		g := p.parseGlobalOrVar(attrs)
		if g != nil {
			prog.Globals = append(prog.Globals, g)
		}

	default:
		bad := p.advance()
		p.errorf("PARSE_ERROR", bad.Span, "unexpected token %q at top level", bad.Text)
	}
}

// --- attributes / decorators ---

func (p *Parser) parseAttributes() []*Attribute {
	var attrs []*Attribute
	for p.check(lexer.KindDecorator) {
		t := p.advance()
		attrs = append(attrs, &Attribute{Span: t.Span, Name: t.Text, Value: t.Args})
	}
	return attrs
}

// --- imports ---

func (p *Parser) parseImport() *Import {
	start := p.advance() // "import"
	imp := &Import{Span: start.Span}

	if p.check(lexer.KindIdentifier) {
		imp.Default = p.advance().Text
		if p.matchPunct(",") {
			p.parseImportClauseTail(imp)
		}
	} else {
		p.parseImportClauseTail(imp)
	}

	p.expectKeyword("from")
	imp.Path = p.expect(lexer.KindString, "expected module path string").Text
	p.matchPunct(";")
	return imp
}

func (p *Parser) parseImportClauseTail(imp *Import) {
	switch {
	case p.matchOperator("*"):
		p.expectIdent("as")
		imp.Namespace = p.expect(lexer.KindIdentifier, "expected namespace binding").Text
	case p.matchPunct("{"):
		for !p.checkPunct("}") && !p.isAtEnd() {
			imp.Named = append(imp.Named, p.expect(lexer.KindIdentifier, "expected import binding").Text)
			if !p.matchPunct(",") {
				break
			}
		}
		p.expectPunct("}")
	}
}

// --- struct / interface / type-alias ---

func (p *Parser) parseStructLike() *StructDecl {
	start := p.advance() // struct | interface | type
	name := p.expect(lexer.KindIdentifier, "expected type name").Text
	if start.Text == "type" {
		p.expectOperator("=")
	}
	decl := &StructDecl{Span: start.Span, Name: name}
	p.expectPunct("{")
	for !p.checkPunct("}") && !p.isAtEnd() {
		decl.Fields = append(decl.Fields, p.parseField())
		p.matchPunct(",")
		p.matchPunct(";")
	}
	p.expectPunct("}")
	return decl
}

func (p *Parser) parseField() *Field {
	attrs := p.parseAttributes()
	name := p.expect(lexer.KindIdentifier, "expected field name").Text
	var ts *TypeSpec
	if p.matchPunct(":") {
		ts = p.parseType()
	}
	return &Field{Span: p.previous().Span, Attributes: attrs, Name: name, Type: ts}
}

// --- class (retained verbatim) ---

func (p *Parser) parseClass() *ClassDecl {
	start := p.advance() // "class"
	name := p.expect(lexer.KindIdentifier, "expected class name").Text
	p.expectPunct("{")
	depth := 1
	var raw strings.Builder
	for depth > 0 && !p.isAtEnd() {
		t := p.advance()
		if t.Text == "{" {
			depth++
		} else if t.Text == "}" {
			depth--
			if depth == 0 {
				break
			}
		}
		raw.WriteString(t.Text)
		raw.WriteString(" ")
	}
	return &ClassDecl{Span: start.Span, Name: name, Raw: raw.String()}
}

// --- functions ---

func (p *Parser) parseFunction(attrs []*Attribute) *FunctionDecl {
	start := p.advance() // function | fn
	name := p.expect(lexer.KindIdentifier, "expected function name").Text
	fn := &FunctionDecl{Span: start.Span, Attributes: attrs, Name: name}

	p.expectPunct("(")
	for !p.checkPunct(")") && !p.isAtEnd() {
		fn.Params = append(fn.Params, p.parseField())
		if !p.matchPunct(",") {
			break
		}
	}
	p.expectPunct(")")

	if p.matchPunct(":") || p.matchOperator("->") {
		fn.ReturnAttrs = p.parseAttributes()
		fn.ReturnType = p.parseType()
	}

	fn.Stage = p.detectStage(attrs)
	fn.WorkgroupSize = p.detectWorkgroupSize(attrs)

	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) detectStage(attrs []*Attribute) Stage {
	for _, a := range attrs {
		switch a.Name {
		case "vertex":
			return StageVertex
		case "fragment":
			return StageFragment
		case "compute":
			return StageCompute
		}
	}
	if idx := p.pos; idx < len(p.toks) {
		if lead, ok := p.lead[idx]; ok {
			if stage, ok := stageFromMagicComment(lead); ok {
				return stage
			}
		}
	}
	return StageNone
}

// stageFromMagicComment scans comment text for the magic pattern
// `@3d-shader <stage>` or a leading `@vertex`/`@fragment`/`@compute`
// line.
func stageFromMagicComment(comment string) (Stage, bool) {
	if idx := strings.Index(comment, "@3d-shader"); idx >= 0 {
		rest := strings.TrimSpace(comment[idx+len("@3d-shader"):])
		rest = strings.TrimSuffix(rest, "*/")
		rest = strings.TrimSpace(strings.SplitN(rest, " ", 2)[0])
		switch rest {
		case "vertex":
			return StageVertex, true
		case "fragment":
			return StageFragment, true
		case "compute":
			return StageCompute, true
		}
	}
	switch {
	case strings.Contains(comment, "@vertex"):
		return StageVertex, true
	case strings.Contains(comment, "@fragment"):
		return StageFragment, true
	case strings.Contains(comment, "@compute"):
		return StageCompute, true
	}
	return StageNone, false
}

func (p *Parser) detectWorkgroupSize(attrs []*Attribute) *WorkgroupSize {
	for _, a := range attrs {
		if a.Name != "workgroup_size" {
			continue
		}
		args := strings.Trim(a.Value, "()")
		parts := strings.Split(args, ",")
		ws := &WorkgroupSize{}
		for i, raw := range parts {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			n, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				continue
			}
			v := uint32(n)
			switch i {
			case 0:
				ws.X = v
			case 1:
				ws.Y = &v
			case 2:
				ws.Z = &v
			}
		}
		return ws
	}
	return nil
}

// --- variable / global declarations ---

func (p *Parser) parseGlobalOrVar(attrs []*Attribute) *GlobalDecl {
	kind := p.advance().Text // const | let | var
	name := p.expect(lexer.KindIdentifier, "expected variable name").Text
	var ts *TypeSpec
	if p.matchPunct(":") {
		ts = p.parseType()
	}
	var init Expression
	if p.matchOperator("=") {
		init = p.parseExpression()
	}
	p.matchPunct(";")

	g := &GlobalDecl{Attributes: attrs, Kind: kind, Name: name, Type: ts, Init: init}
	for _, a := range attrs {
		switch a.Name {
		case "group":
			if n, err := strconv.ParseUint(strings.Trim(a.Value, "()"), 10, 32); err == nil {
				g.Group = uint32(n)
			}
		case "binding":
			if n, err := strconv.ParseUint(strings.Trim(a.Value, "()"), 10, 32); err == nil {
				g.Binding = uint32(n)
			}
		}
	}
	return g
}

// --- types ---

func (p *Parser) parseType() *TypeSpec {
	name := p.expect(lexer.KindIdentifier, "expected type name").Text
	ts := &TypeSpec{Span: p.previous().Span, Name: name}

	if p.matchOperator("<") {
		for !p.checkOperator(">") && !p.isAtEnd() {
			if p.check(lexer.KindNumber) {
				n, err := strconv.ParseUint(p.advance().Text, 10, 32)
				if err == nil {
					v := uint32(n)
					ts.ArraySize = &v
				}
			} else {
				ts.Args = append(ts.Args, p.parseType())
			}
			if !p.matchPunct(",") {
				break
			}
		}
		p.expectOperator(">")
	}

	// `T[]` array-suffix sugar, lowered to array<T>.
	if p.matchPunct("[") {
		p.expectPunct("]")
		ts = &TypeSpec{Span: ts.Span, Name: "array", Args: []*TypeSpec{ts}}
	}
	return ts
}

// --- statements ---

func (p *Parser) parseBlock() []Statement {
	p.expectPunct("{")
	var body []Statement
	for !p.checkPunct("}") && !p.isAtEnd() {
		body = append(body, p.parseStatement())
	}
	p.expectPunct("}")
	return body
}

func (p *Parser) parseStatement() (stmt Statement) {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
			stmt = &ExprStmt{Span: p.peek().Span}
		}
	}()

	switch {
	case p.checkKeyword("const") || p.checkKeyword("let") || p.checkKeyword("var"):
		return p.parseVarStmt()
	case p.checkKeyword("if"):
		return p.parseIfStmt()
	case p.checkKeyword("for"):
		return p.parseForStmt()
	case p.checkKeyword("while"):
		return p.parseWhileStmt()
	case p.checkKeyword("return"):
		return p.parseReturnStmt()
	case p.checkIdent("discard"):
		s := p.advance()
		p.matchPunct(";")
		return &DiscardStmt{Span: s.Span}
	case p.checkIdent("break"):
		s := p.advance()
		p.matchPunct(";")
		return &BreakStmt{Span: s.Span}
	case p.checkIdent("continue"):
		s := p.advance()
		p.matchPunct(";")
		return &ContinueStmt{Span: s.Span}
	case p.checkPunct("{"):
		start := p.peek()
		return &BlockStmt{Span: start.Span, Body: p.parseBlock()}
	default:
		start := p.peek()
		e := p.parseExpression()
		p.matchPunct(";")
		return &ExprStmt{Span: start.Span, Expr: e}
	}
}

func (p *Parser) parseVarStmt() Statement {
	start := p.advance()
	name := p.expect(lexer.KindIdentifier, "expected variable name").Text
	var ts *TypeSpec
	if p.matchPunct(":") {
		ts = p.parseType()
	}
	var init Expression
	if p.matchOperator("=") {
		init = p.parseExpression()
	}
	p.matchPunct(";")
	return &VarStmt{Span: start.Span, Kind: start.Text, Name: name, Type: ts, Init: init}
}

func (p *Parser) parseIfStmt() Statement {
	start := p.advance()
	p.expectPunct("(")
	cond := p.parseExpression()
	p.expectPunct(")")
	then := p.parseBlock()
	var els []Statement
	if p.matchKeyword("else") {
		if p.checkKeyword("if") {
			els = []Statement{p.parseIfStmt()}
		} else {
			els = p.parseBlock()
		}
	}
	return &IfStmt{Span: start.Span, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseForStmt() Statement {
	start := p.advance()
	p.expectPunct("(")
	var init Statement
	if !p.checkPunct(";") {
		init = p.parseStatement()
	} else {
		p.advance()
	}
	var cond Expression
	if !p.checkPunct(";") {
		cond = p.parseExpression()
	}
	p.expectPunct(";")
	var post Statement
	if !p.checkPunct(")") {
		postStart := p.peek()
		e := p.parseExpression()
		post = &ExprStmt{Span: postStart.Span, Expr: e}
	}
	p.expectPunct(")")
	body := p.parseBlock()
	return &ForStmt{Span: start.Span, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseWhileStmt() Statement {
	start := p.advance()
	p.expectPunct("(")
	cond := p.parseExpression()
	p.expectPunct(")")
	body := p.parseBlock()
	return &WhileStmt{Span: start.Span, Cond: cond, Body: body}
}

func (p *Parser) parseReturnStmt() Statement {
	start := p.advance()
	var val Expression
	if !p.checkPunct(";") && !p.checkPunct("}") {
		val = p.parseExpression()
	}
	p.matchPunct(";")
	return &ReturnStmt{Span: start.Span, Value: val}
}

// --- expressions: precedence climbing ---
// assignment > logicalOr > logicalAnd > equality > comparison > additive
// > multiplicative > unary > postfix > primary

func (p *Parser) parseExpression() Expression {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() Expression {
	left := p.parseLogicalOr()
	if p.checkAnyOperator("=", "+=", "-=", "*=", "/=") {
		op := p.advance().Text
		right := p.parseAssignment()
		return &AssignExpr{Span: p.previous().Span, Op: op, Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseLogicalOr() Expression {
	left := p.parseLogicalAnd()
	for p.checkOperator("||") {
		op := p.advance().Text
		right := p.parseLogicalAnd()
		left = &LogicalExpr{Span: p.previous().Span, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() Expression {
	left := p.parseEquality()
	for p.checkOperator("&&") {
		op := p.advance().Text
		right := p.parseEquality()
		left = &LogicalExpr{Span: p.previous().Span, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() Expression {
	left := p.parseComparison()
	for p.checkAnyOperator("==", "!=", "===", "!==") {
		op := p.advance().Text
		right := p.parseComparison()
		left = &BinaryExpr{Span: p.previous().Span, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() Expression {
	left := p.parseAdditive()
	for p.checkAnyOperator("<", ">", "<=", ">=") {
		op := p.advance().Text
		right := p.parseAdditive()
		left = &BinaryExpr{Span: p.previous().Span, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() Expression {
	left := p.parseMultiplicative()
	for p.checkAnyOperator("+", "-") {
		op := p.advance().Text
		right := p.parseMultiplicative()
		left = &BinaryExpr{Span: p.previous().Span, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() Expression {
	left := p.parseUnary()
	for p.checkAnyOperator("*", "/", "%") {
		op := p.advance().Text
		right := p.parseUnary()
		left = &BinaryExpr{Span: p.previous().Span, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() Expression {
	if p.checkAnyOperator("!", "-", "+", "~") {
		op := p.advance().Text
		expr := p.parseUnary()
		return &UnaryExpr{Span: p.previous().Span, Op: op, Expr: expr}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expression {
	expr := p.parsePrimary()
	for {
		switch {
		case p.matchPunct("."):
			name := p.expect(lexer.KindIdentifier, "expected member name").Text
			expr = &MemberExpr{Span: p.previous().Span, Object: expr, Name: name}
		case p.matchPunct("("):
			var args []Expression
			for !p.checkPunct(")") && !p.isAtEnd() {
				args = append(args, p.parseExpression())
				if !p.matchPunct(",") {
					break
				}
			}
			p.expectPunct(")")
			expr = &CallExpr{Span: p.previous().Span, Callee: expr, Args: args}
		case p.matchPunct("["):
			idx := p.parseExpression()
			p.expectPunct("]")
			expr = &IndexExpr{Span: p.previous().Span, Array: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() Expression {
	t := p.peek()
	switch {
	case p.check(lexer.KindNumber):
		p.advance()
		return &LiteralExpr{Span: t.Span, Kind: numberLiteralKind(t.Text), Text: t.Text}
	case p.check(lexer.KindString):
		p.advance()
		return &LiteralExpr{Span: t.Span, Kind: "string", Text: t.Text}
	case p.checkKeyword("true") || p.checkKeyword("false"):
		p.advance()
		return &LiteralExpr{Span: t.Span, Kind: "bool", Text: t.Text}
	case p.check(lexer.KindIdentifier):
		p.advance()
		return &IdentExpr{Span: t.Span, Name: t.Text}
	case p.matchPunct("("):
		e := p.parseExpression()
		p.expectPunct(")")
		return &ParenExpr{Span: t.Span, Expr: e}
	case p.matchPunct("["):
		var elems []Expression
		for !p.checkPunct("]") && !p.isAtEnd() {
			elems = append(elems, p.parseExpression())
			if !p.matchPunct(",") {
				break
			}
		}
		p.expectPunct("]")
		return &ArrayLiteralExpr{Span: t.Span, Elements: elems}
	default:
		p.advance()
		p.errorf("PARSE_ERROR", t.Span, "unexpected token %q in expression", t.Text)
		return &LiteralExpr{Span: t.Span, Kind: "int", Text: "0"}
	}
}

// --- token stream primitives ---

func (p *Parser) isAtEnd() bool { return p.peek().Kind == lexer.KindEOF }
func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.KindEOF}
	}
	return p.toks[p.pos]
}
func (p *Parser) previous() lexer.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}
func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(k lexer.Kind) bool  { return p.peek().Kind == k }
func (p *Parser) checkKeyword(s string) bool {
	return p.peek().Kind == lexer.KindKeyword && p.peek().Text == s
}
func (p *Parser) checkIdent(s string) bool {
	return p.peek().Kind == lexer.KindIdentifier && p.peek().Text == s
}
func (p *Parser) checkPunct(s string) bool {
	return p.peek().Kind == lexer.KindPunctuation && p.peek().Text == s
}
func (p *Parser) checkOperator(s string) bool {
	return p.peek().Kind == lexer.KindOperator && p.peek().Text == s
}
func (p *Parser) checkAnyOperator(ops ...string) bool {
	for _, o := range ops {
		if p.checkOperator(o) {
			return true
		}
	}
	return false
}

func (p *Parser) matchKeyword(s string) bool {
	if p.checkKeyword(s) {
		p.advance()
		return true
	}
	return false
}
func (p *Parser) matchPunct(s string) bool {
	if p.checkPunct(s) {
		p.advance()
		return true
	}
	return false
}
func (p *Parser) matchOperator(s string) bool {
	if p.checkOperator(s) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k lexer.Kind, msg string) lexer.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorf("PARSE_ERROR", p.peek().Span, "%s, got %q", msg, p.peek().Text)
	return p.peek()
}
func (p *Parser) expectKeyword(s string) {
	if !p.matchKeyword(s) {
		p.errorf("PARSE_ERROR", p.peek().Span, "expected keyword %q, got %q", s, p.peek().Text)
	}
}
func (p *Parser) expectIdent(s string) {
	if p.checkIdent(s) {
		p.advance()
		return
	}
	p.errorf("PARSE_ERROR", p.peek().Span, "expected %q, got %q", s, p.peek().Text)
}
func (p *Parser) expectPunct(s string) {
	if !p.matchPunct(s) {
		p.errorf("PARSE_ERROR", p.peek().Span, "expected %q, got %q", s, p.peek().Text)
	}
}
func (p *Parser) expectOperator(s string) {
	if !p.matchOperator(s) {
		p.errorf("PARSE_ERROR", p.peek().Span, "expected %q, got %q", s, p.peek().Text)
	}
}

// synchronize skips tokens until a likely statement/declaration
// boundary, so one parse error doesn't cascade into many.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Kind == lexer.KindPunctuation && p.previous().Text == ";" {
			return
		}
		switch p.peek().Text {
		case "function", "fn", "struct", "class", "import", "const", "let", "var", "if", "for", "while", "return":
			return
		}
		p.advance()
	}
}

func (p *Parser) errorf(code string, span lexer.Span, format string, args ...interface{}) {
	if p.diags == nil {
		return
	}
	p.diags.Errorf(code, &diag.Span{
		File:  span.File,
		Start: diag.Position(span.Start),
		End:   diag.Position(span.End),
	}, format, args...)
	panic(parseError{})
}

type parseError struct{}

// numberLiteralKind classifies a lexed number literal per spec.md 4.5:
// a trailing "u" or "i" suffix, or no decimal point/exponent/"h"/"f" at
// all, means an integer literal; a decimal point, exponent, "f", or "h"
// suffix means a float literal.
func numberLiteralKind(text string) string {
	if n := len(text); n > 0 {
		switch text[n-1] {
		case 'u', 'i':
			return "int"
		case 'f', 'h':
			return "float"
		}
	}
	if strings.ContainsAny(text, ".eE") {
		return "float"
	}
	return "int"
}
