package syntax

import "fmt"

// Parse parses a complete compilation unit (a sequence of top-level
// declarations) from src, which is read from filename.
func Parse(filename string, src []byte) (*File, error) {
	p := &parser{sc: newScanner(filename, src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	f := &File{Path: filename}
	for p.tok != EOF {
		d, err := p.parseTopDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}

// ParseExprOrStmts parses one line of REPL input: either a single bare
// expression (not consumed by ';') or a sequence of declarations/statements.
// It returns (expr, nil, nil) in the former case and (nil, decls, nil) in
// the latter.
func ParseExprOrStmts(filename string, src []byte) (Expr, []Decl, error) {
	p := &parser{sc: newScanner(filename, src)}
	if err := p.advance(); err != nil {
		return nil, nil, err
	}
	if p.tok == EOF {
		return nil, nil, nil
	}
	start := p.save()
	if expr, err := p.parseExpr(); err == nil && p.tok == EOF {
		return expr, nil, nil
	}
	p.restore(start)
	var decls []Decl
	for p.tok != EOF {
		d, err := p.parseTopDecl()
		if err != nil {
			return nil, nil, err
		}
		decls = append(decls, d)
	}
	return nil, decls, nil
}

type parserState struct {
	offset    int
	line      int32
	lineStart int
}

type parser struct {
	sc  *scanner
	tok Token
	pos Position

	// noStructLit suppresses treating a bare `Ident {` as a struct literal;
	// set while parsing an if/while/for condition or a match scrutinee, so
	// the following "{" is recognized as the block/arm-list delimiter.
	noStructLit bool
}

func (p *parser) save() parserState {
	return parserState{p.sc.offset, p.sc.line, p.sc.lineStart}
}

func (p *parser) restore(st parserState) {
	p.sc.offset, p.sc.line, p.sc.lineStart = st.offset, st.line, st.lineStart
	p.advance()
}

func (p *parser) advance() error {
	tok, err := p.sc.next()
	if err != nil {
		return err
	}
	p.tok = tok
	p.pos = p.sc.pos
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(tok Token) (Position, error) {
	if p.tok != tok {
		return Position{}, p.errorf("got %s, want %s", describeTok(p.tok, p.sc.lit), tok)
	}
	pos := p.pos
	return pos, p.advance()
}

func describeTok(tok Token, lit string) string {
	if tok == IDENT || tok == INT || tok == FLOAT || tok == STRING {
		return fmt.Sprintf("%s %q", tok, lit)
	}
	return fmt.Sprintf("%q", tok.String())
}

func (p *parser) parseIdent() (*Ident, error) {
	if p.tok != IDENT {
		return nil, p.errorf("got %s, want identifier", describeTok(p.tok, p.sc.lit))
	}
	id := &Ident{NamePos: p.pos, Name: p.sc.lit}
	return id, p.advance()
}

// ---- top-level declarations ----

func (p *parser) parseTopDecl() (Decl, error) {
	switch p.tok {
	case FN:
		d, err := p.parseFuncDecl(false)
		if err != nil {
			return nil, err
		}
		return d, nil
	case STRUCT:
		return p.parseStructDecl()
	case IMPL:
		return p.parseImplDecl()
	case ENUM:
		return p.parseEnumDecl()
	case CONST:
		d, err := p.parseConstDecl()
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return &StmtDecl{Stmt: s}, nil
	}
}

func (p *parser) parseFuncDecl(inImpl bool) (*FuncDecl, error) {
	fnPos, err := p.expect(FN)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []*Param
	isMethod := false
	first := true
	for p.tok != RPAREN {
		if !first {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
			if p.tok == RPAREN {
				break
			}
		}
		if first && inImpl && p.tok == SELF {
			isMethod = true
			p.advance()
			first = false
			continue
		}
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		first = false
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	var ret TypeExpr
	if p.tok == ARROW {
		p.advance()
		ret, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	_, end := body.Span()
	return &FuncDecl{FnPos: fnPos, Name: name, Params: params, IsMethod: isMethod, RetType: ret, Body: body, EndPos: end}, nil
}

func (p *parser) parseParam() (*Param, error) {
	mut := false
	pos := p.pos
	if p.tok == MUT {
		mut = true
		p.advance()
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	t, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	return &Param{Mut: mut, Name: name, Type: t, NamePos: pos}, nil
}

func (p *parser) parseTypeExpr() (TypeExpr, error) {
	if p.tok == VEC {
		pos := p.pos
		p.advance()
		var elem TypeExpr
		if p.tok == LT {
			p.advance()
			var err error
			elem, err = p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(GT); err != nil {
				return nil, err
			}
		}
		return &VecType{Pos: pos, Elem: elem, EndPos: p.pos}, nil
	}
	if p.tok != IDENT && p.tok != SELF_TYPE && p.tok != FN && p.tok != NIL {
		return nil, p.errorf("got %s, want type name", describeTok(p.tok, p.sc.lit))
	}
	name := p.sc.lit
	pos := p.pos
	p.advance()
	return &NamedType{Pos: pos, Name: name}, nil
}

func (p *parser) parseStructDecl() (*StructDecl, error) {
	pos, err := p.expect(STRUCT)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var fields []*FieldSpec
	for p.tok != RBRACE {
		pub := false
		if p.tok == PUB {
			pub = true
			p.advance()
		}
		fname, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		ftype, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, &FieldSpec{Pub: pub, Name: fname, Type: ftype})
		if p.tok == COMMA {
			p.advance()
		} else {
			break
		}
	}
	endPos, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &StructDecl{StructPos: pos, Name: name, Fields: fields, EndPos: endPos}, nil
}

// parseImplDecl parses `impl Name { (const NAME = e;) | ([pub] fn ...) * }`.
func (p *parser) parseImplDecl() (*ImplDecl, error) {
	implPos, err := p.expect(IMPL)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	decl := &ImplDecl{ImplPos: implPos, Name: name}
	for p.tok != RBRACE {
		pub := false
		if p.tok == PUB {
			pub = true
			p.advance()
		}
		if p.tok == CONST {
			c, err := p.parseConstDecl()
			if err != nil {
				return nil, err
			}
			c.Pub = pub
			decl.Consts = append(decl.Consts, c)
			continue
		}
		m, err := p.parseFuncDecl(true)
		if err != nil {
			return nil, err
		}
		m.Pub = pub
		decl.Methods = append(decl.Methods, m)
	}
	decl.EndPos, err = p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseEnumDecl() (*EnumDecl, error) {
	pos, err := p.expect(ENUM)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var variants []*Ident
	for p.tok != RBRACE {
		v, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
		if p.tok == COMMA {
			p.advance()
		} else {
			break
		}
	}
	endPos, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &EnumDecl{EnumPos: pos, Name: name, Variants: variants, EndPos: endPos}, nil
}

func (p *parser) parseConstDecl() (*ConstDecl, error) {
	pos, err := p.expect(CONST)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	return &ConstDecl{ConstPos: pos, Name: name, Value: val}, nil
}

// ---- statements ----

func (p *parser) parseBlock() (*BlockStmt, error) {
	lbrace, err := p.expect(LBRACE)
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.tok != RBRACE {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	rbrace, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &BlockStmt{Lbrace: lbrace, Stmts: stmts, Rbrace: rbrace}, nil
}

func (p *parser) parseStmt() (Stmt, error) {
	switch p.tok {
	case LBRACE:
		return p.parseBlock()
	case LET:
		return p.parseLetStmt()
	case CONST:
		c, err := p.parseConstDecl()
		if err != nil {
			return nil, err
		}
		return &ConstStmt{Decl: c}, nil
	case RETURN:
		return p.parseReturnStmt()
	case BREAK:
		pos := p.pos
		p.advance()
		end, err := p.expect(SEMI)
		if err != nil {
			return nil, err
		}
		return &BreakStmt{BreakPos: pos, EndPos: end}, nil
	case CONTINUE:
		pos := p.pos
		p.advance()
		end, err := p.expect(SEMI)
		if err != nil {
			return nil, err
		}
		return &ContinueStmt{ContinuePos: pos, EndPos: end}, nil
	case IF:
		return p.parseIfStmt()
	case WHILE:
		return p.parseWhileStmt()
	case LOOP:
		return p.parseLoopStmt()
	case FOR:
		return p.parseForStmt()
	case FN:
		d, err := p.parseFuncDecl(false)
		if err != nil {
			return nil, err
		}
		return &FuncDeclStmt{Decl: d}, nil
	case STRUCT:
		d, err := p.parseStructDecl()
		if err != nil {
			return nil, err
		}
		return &StructDeclStmt{Decl: d}, nil
	case IMPL:
		d, err := p.parseImplDecl()
		if err != nil {
			return nil, err
		}
		return &ImplDeclStmt{Decl: d}, nil
	case ENUM:
		d, err := p.parseEnumDecl()
		if err != nil {
			return nil, err
		}
		return &EnumDeclStmt{Decl: d}, nil
	default:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMI); err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	}
}

func (p *parser) parseLetStmt() (*LetStmt, error) {
	pos, err := p.expect(LET)
	if err != nil {
		return nil, err
	}
	mut := false
	if p.tok == MUT {
		mut = true
		p.advance()
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	var t TypeExpr
	if p.tok == COLON {
		p.advance()
		t, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	var val Expr
	if p.tok == ASSIGN {
		p.advance()
		val, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(SEMI)
	if err != nil {
		return nil, err
	}
	return &LetStmt{LetPos: pos, Mut: mut, Name: name, Type: t, Value: val, EndPos: end}, nil
}

func (p *parser) parseReturnStmt() (*ReturnStmt, error) {
	pos, err := p.expect(RETURN)
	if err != nil {
		return nil, err
	}
	var val Expr
	if p.tok != SEMI {
		val, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(SEMI)
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{ReturnPos: pos, Value: val, EndPos: end}, nil
}

func (p *parser) parseIfStmt() (*IfStmt, error) {
	pos, err := p.expect(IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExprNoStructLit()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{IfPos: pos, Cond: cond, Then: then}
	if p.tok == ELSE {
		p.advance()
		if p.tok == IF {
			elseIf, err := p.parseIfStmt()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *parser) parseWhileStmt() (*WhileStmt, error) {
	pos, err := p.expect(WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExprNoStructLit()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{WhilePos: pos, Cond: cond, Body: body}, nil
}

func (p *parser) parseLoopStmt() (*LoopStmt, error) {
	pos, err := p.expect(LOOP)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &LoopStmt{LoopPos: pos, Body: body}, nil
}

func (p *parser) parseForStmt() (*ForStmt, error) {
	pos, err := p.expect(FOR)
	if err != nil {
		return nil, err
	}
	var init Stmt
	if p.tok != SEMI {
		if p.tok == LET {
			init, err = p.parseLetStmt()
		} else {
			x, xerr := p.parseExpr()
			if xerr != nil {
				return nil, xerr
			}
			if _, serr := p.expect(SEMI); serr != nil {
				return nil, serr
			}
			init = &ExprStmt{X: x}
		}
		if err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(SEMI); err != nil {
			return nil, err
		}
	}
	var cond Expr
	if p.tok != SEMI {
		cond, err = p.parseExprNoStructLit()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	var step Stmt
	if p.tok != LBRACE {
		x, err := p.parseExprNoStructLit()
		if err != nil {
			return nil, err
		}
		step = &ExprStmt{X: x}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{ForPos: pos, Init: init, Cond: cond, Step: step, Body: body}, nil
}

// ---- expressions, precedence climbing ----
//
// lowest to highest: assignment, ||, &&, equality, comparison, additive,
// multiplicative, unary, postfix. match is primary.

func (p *parser) parseExpr() (Expr, error) {
	return p.parseAssign()
}

var compoundAssignOps = map[Token]bool{
	PLUS_EQ: true, MINUS_EQ: true, STAR_EQ: true, SLASH_EQ: true, PERCENT_EQ: true,
}

func (p *parser) parseAssign() (Expr, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok == ASSIGN || compoundAssignOps[p.tok] {
		switch lhs.(type) {
		case *Ident, *FieldExpr, *IndexExpr:
			// ok
		default:
			return nil, &Error{Pos: Start(lhs), Msg: "invalid assignment target"}
		}
		op := p.tok
		opPos := p.pos
		p.advance()
		rhs, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{LHS: lhs, OpPos: opPos, Op: op, RHS: rhs}, nil
	}
	return lhs, nil
}

func (p *parser) parseOr() (Expr, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok == OR {
		opPos := p.pos
		p.advance()
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: opPos, Op: OR, Y: y}
	}
	return x, nil
}

func (p *parser) parseAnd() (Expr, error) {
	x, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.tok == AND {
		opPos := p.pos
		p.advance()
		y, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: opPos, Op: AND, Y: y}
	}
	return x, nil
}

func (p *parser) parseEquality() (Expr, error) {
	x, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.tok == EQ || p.tok == NE {
		op := p.tok
		opPos := p.pos
		p.advance()
		y, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x, nil
}

func (p *parser) parseComparison() (Expr, error) {
	x, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.tok == LT || p.tok == GT || p.tok == LE || p.tok == GE {
		op := p.tok
		opPos := p.pos
		p.advance()
		y, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	x, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok == PLUS || p.tok == MINUS {
		op := p.tok
		opPos := p.pos
		p.advance()
		y, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok == STAR || p.tok == SLASH || p.tok == PERCENT {
		op := p.tok
		opPos := p.pos
		p.advance()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok == MINUS || p.tok == NOT {
		op := p.tok
		opPos := p.pos
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{OpPos: opPos, Op: op, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok {
		case LPAREN:
			lparen := p.pos
			p.advance()
			var args []Expr
			for p.tok != RPAREN {
				if len(args) > 0 {
					if _, err := p.expect(COMMA); err != nil {
						return nil, err
					}
					if p.tok == RPAREN {
						break
					}
				}
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			rparen, err := p.expect(RPAREN)
			if err != nil {
				return nil, err
			}
			x = &CallExpr{Fn: x, Lparen: lparen, Args: args, Rparen: rparen}
		case LBRACK:
			lbrack := p.pos
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			rbrack, err := p.expect(RBRACK)
			if err != nil {
				return nil, err
			}
			x = &IndexExpr{X: x, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
		case DOT:
			dot := p.pos
			p.advance()
			name, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			x = &FieldExpr{X: x, Dot: dot, Name: name}
		default:
			return x, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok {
	case INT:
		x := &IntLit{Pos: p.pos, Raw: p.sc.lit, Value: p.sc.intVal}
		return x, p.advance()
	case FLOAT:
		x := &FloatLit{Pos: p.pos, Raw: p.sc.lit, Value: p.sc.fltVal}
		return x, p.advance()
	case STRING:
		x := &StringLit{Pos: p.pos, Raw: p.sc.lit, Value: p.sc.strVal}
		return x, p.advance()
	case TRUE:
		x := &BoolLit{Pos: p.pos, Value: true}
		return x, p.advance()
	case FALSE:
		x := &BoolLit{Pos: p.pos, Value: false}
		return x, p.advance()
	case NIL:
		x := &NilLit{Pos: p.pos}
		return x, p.advance()
	case SELF:
		x := &Ident{NamePos: p.pos, Name: "self"}
		return x, p.advance()
	case SELF_TYPE:
		x := &Ident{NamePos: p.pos, Name: "Self"}
		if err := p.advance(); err != nil {
			return nil, err
		}
		id, err := p.parsePathOrIdent(x)
		return id, err
	case IDENT:
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return p.parsePathOrIdent(id)
	case LPAREN:
		lparen := p.pos
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expect(RPAREN)
		if err != nil {
			return nil, err
		}
		return &GroupExpr{Lparen: lparen, Rparen: rparen, X: x}, nil
	case FN:
		return p.parseLambda()
	case VEC:
		return p.parseVecLit()
	case MATCH:
		return p.parseMatch()
	}
	return nil, p.errorf("got %s, want expression", describeTok(p.tok, p.sc.lit))
}

// parsePathOrIdent consumes an optional `::item` or ` { field: ... }` suffix
// following a bare identifier already parsed as `id`.
func (p *parser) parsePathOrIdent(id *Ident) (Expr, error) {
	if p.tok == DCOLON {
		dcolon := p.pos
		p.advance()
		item, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &PathExpr{Type: id, Dcolon: dcolon, Item: item}, nil
	}
	if p.tok == LBRACE && p.canStartStructLit() {
		return p.parseStructLitBody(id)
	}
	return id, nil
}

// canStartStructLit disambiguates `Name { ... }` (a struct literal) from a
// block-taking construct like `if cond { ... }` or `while cond { ... }`
// where an identifier is merely the condition. We only ever call this
// right after parsing a bare identifier in expression position, and the
// caller (parseIfStmt/parseWhileStmt/parseForStmt) parses its condition via
// parseExpr, which would otherwise swallow the following block as a struct
// literal. To avoid the ambiguity, those callers set noStructLit while
// parsing the condition.
func (p *parser) canStartStructLit() bool {
	return !p.noStructLit
}

func (p *parser) parseStructLitBody(name *Ident) (Expr, error) {
	lbrace, err := p.expect(LBRACE)
	if err != nil {
		return nil, err
	}
	var fields []*StructFieldInit
	for p.tok != RBRACE {
		fname, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, &StructFieldInit{Name: fname, Value: val})
		if p.tok == COMMA {
			p.advance()
		} else {
			break
		}
	}
	rbrace, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &StructLit{Name: name, Lbrace: lbrace, Fields: fields, Rbrace: rbrace}, nil
}

func (p *parser) parseLambda() (Expr, error) {
	pos, err := p.expect(FN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []*Param
	for p.tok != RPAREN {
		if len(params) > 0 {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
			if p.tok == RPAREN {
				break
			}
		}
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	var ret TypeExpr
	if p.tok == ARROW {
		p.advance()
		ret, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &LambdaExpr{FnPos: pos, Params: params, RetType: ret, Body: body}, nil
}

func (p *parser) parseVecLit() (Expr, error) {
	pos, err := p.expect(VEC)
	if err != nil {
		return nil, err
	}
	var elemT TypeExpr
	if p.tok == LT {
		p.advance()
		elemT, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(GT); err != nil {
			return nil, err
		}
	}
	lbrack, err := p.expect(LBRACK)
	if err != nil {
		return nil, err
	}
	var elems []Expr
	for p.tok != RBRACK {
		if len(elems) > 0 {
			if _, err := p.expect(COMMA); err != nil {
				return nil, err
			}
			if p.tok == RBRACK {
				break
			}
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	rbrack, err := p.expect(RBRACK)
	if err != nil {
		return nil, err
	}
	return &VecLit{VecPos: pos, ElemT: elemT, Lbrack: lbrack, Elems: elems, Rbrack: rbrack}, nil
}

func (p *parser) parseMatch() (Expr, error) {
	pos, err := p.expect(MATCH)
	if err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExprNoStructLit()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var arms []*MatchArm
	for p.tok != RBRACE {
		pat, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arrow, err := p.expect(FATARROW)
		if err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, &MatchArm{Pattern: pat, Arrow: arrow, Value: val})
		if p.tok == COMMA {
			p.advance()
		} else {
			break
		}
	}
	rbrace, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &MatchExpr{MatchPos: pos, Scrutinee: scrutinee, Arms: arms, Rbrace: rbrace}, nil
}

// parseExprNoStructLit parses an expression in a context (an if/while/for
// condition, or a match scrutinee) where a trailing "{" must be treated as
// the start of a block/arm-list rather than a struct literal.
func (p *parser) parseExprNoStructLit() (Expr, error) {
	p.noStructLit = true
	defer func() { p.noStructLit = false }()
	return p.parseExpr()
}
