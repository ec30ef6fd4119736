package parser

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/token"
)

// parseBlock parses `begin stmts [exception handlers]`; the caller parses
// any declarative part before it and the closing `end`. openKw is not
// consulted: the sequence always opens with BEGIN.
func (p *Parser) parseBlock(openKw token.Kind) *ast.Block {
	tok := p.cur
	b := &ast.Block{Token: tok}
	p.expect(token.BEGIN)
	for !p.atBlockEnd() {
		b.Stmts = append(b.Stmts, p.parseStatement())
	}
	if p.cur.Kind == token.EXCEPTION {
		p.advance()
		for p.cur.Kind == token.WHEN {
			b.Handlers = append(b.Handlers, p.parseExceptionHandler())
		}
	}
	return b
}

func (p *Parser) atBlockEnd() bool {
	switch p.cur.Kind {
	case token.END, token.EXCEPTION, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseExceptionHandler() *ast.ExceptionHandler {
	tok := p.cur
	p.advance() // when
	h := &ast.ExceptionHandler{Token: tok}
	if p.cur.Kind == token.IDENT && p.peek(0).Kind == token.COLON {
		h.VarName = p.parseIdent()
		p.advance() // :
	}
	if p.cur.Kind == token.OTHERS {
		h.Choices = append(h.Choices, &ast.Ident{Token: p.cur, Name: p.cur.Literal})
		p.advance()
	} else {
		h.Choices = append(h.Choices, p.parseDottedIdent())
		for p.cur.Kind == token.PIPE {
			p.advance()
			h.Choices = append(h.Choices, p.parseDottedIdent())
		}
	}
	p.expect(token.ARROW)
	for p.cur.Kind != token.WHEN && p.cur.Kind != token.END && p.cur.Kind != token.EOF {
		h.Stmts = append(h.Stmts, p.parseStatement())
	}
	return h
}

// parseStatement parses exactly one (possibly labeled) statement.
func (p *Parser) parseStatement() ast.Stmt {
	if p.cur.Kind == token.LTLT {
		return p.parseLabeledStatement()
	}
	switch p.cur.Kind {
	case token.NULL:
		tok := p.cur
		p.advance()
		p.expect(token.SEMICOLON)
		return &ast.NullStmt{Token: tok}
	case token.IF:
		return p.parseIfStmt()
	case token.CASE:
		return p.parseCaseStmt()
	case token.LOOP:
		return p.parsePlainLoop("")
	case token.WHILE:
		return p.parseWhileLoop("")
	case token.FOR:
		return p.parseForLoop("")
	case token.EXIT:
		return p.parseExitStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.RAISE:
		return p.parseRaiseStmt()
	case token.ACCEPT:
		return p.parseAcceptStmt()
	case token.DELAY:
		return p.parseDelayStmt()
	case token.SELECT:
		return p.parseSelectStmt()
	case token.GOTO:
		return p.parseGotoStmt()
	case token.DECLARE, token.BEGIN:
		return p.parseNestedBlock()
	case token.IDENT:
		return p.parseAssignOrCall()
	default:
		p.errorf("unexpected token %q at start of statement", p.cur.Literal)
		p.resynchronize()
		return &ast.NullStmt{Token: p.cur}
	}
}

func (p *Parser) parseLabeledStatement() ast.Stmt {
	p.advance() // <<
	name := p.parseIdent()
	p.expect(token.GTGT)
	if p.cur.Kind == token.LOOP {
		return p.parsePlainLoop(name.Name)
	}
	if p.cur.Kind == token.WHILE {
		return p.parseWhileLoop(name.Name)
	}
	if p.cur.Kind == token.FOR {
		return p.parseForLoop(name.Name)
	}
	inner := p.parseStatement()
	return &ast.LabeledStmt{Token: name.Token, Label: name, Stmt: inner}
}

func (p *Parser) parseNestedBlock() ast.Stmt {
	tok := p.cur
	var decls ast.DeclList
	if p.cur.Kind == token.DECLARE {
		p.advance()
		decls = p.parseDeclarativePart()
	}
	b := p.parseBlock(token.BEGIN)
	b.Token = tok
	b.Decls = decls
	p.expect(token.END)
	p.expect(token.SEMICOLON)
	return b
}

func (p *Parser) parseIfStmt() ast.Stmt {
	tok := p.cur
	p.advance() // if
	cond := p.parseExpression(lowest)
	p.expect(token.THEN)
	stmt := &ast.IfStmt{Token: tok, Cond: cond}
	for !p.atArmEnd() {
		stmt.Then = append(stmt.Then, p.parseStatement())
	}
	for p.cur.Kind == token.ELSIF {
		etok := p.cur
		p.advance()
		c := p.parseExpression(lowest)
		p.expect(token.THEN)
		arm := &ast.ElifArm{Token: etok, Cond: c}
		for !p.atArmEnd() {
			arm.Then = append(arm.Then, p.parseStatement())
		}
		stmt.Elifs = append(stmt.Elifs, arm)
	}
	if p.cur.Kind == token.ELSE {
		p.advance()
		for !p.atArmEnd() {
			stmt.Else = append(stmt.Else, p.parseStatement())
		}
	}
	p.expect(token.END)
	p.expect(token.IF)
	p.expect(token.SEMICOLON)
	return stmt
}

func (p *Parser) atArmEnd() bool {
	switch p.cur.Kind {
	case token.ELSIF, token.ELSE, token.END, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseCaseStmt() ast.Stmt {
	tok := p.cur
	p.advance() // case
	subj := p.parseExpression(lowest)
	p.expect(token.IS)
	cs := &ast.CaseStmt{Token: tok, Subj: subj}
	for p.cur.Kind == token.WHEN {
		p.advance()
		arm := &ast.CaseArm{}
		arm.Choices = append(arm.Choices, p.parseExpressionOrRange())
		for p.cur.Kind == token.PIPE {
			p.advance()
			arm.Choices = append(arm.Choices, p.parseExpressionOrRange())
		}
		p.expect(token.ARROW)
		for p.cur.Kind != token.WHEN && p.cur.Kind != token.END && p.cur.Kind != token.EOF {
			arm.Stmts = append(arm.Stmts, p.parseStatement())
		}
		cs.Arms = append(cs.Arms, arm)
	}
	p.expect(token.END)
	p.expect(token.CASE)
	p.expect(token.SEMICOLON)
	return cs
}

func (p *Parser) parseLoopBody() []ast.Stmt {
	var stmts []ast.Stmt
	for p.cur.Kind != token.END && p.cur.Kind != token.EOF {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts
}

func (p *Parser) finishLoop(tok token.Token, label string, kind ast.LoopKind, cond, rangeExpr Expr, varName *ast.Ident, reverse bool) *ast.LoopStmt {
	p.expect(token.LOOP)
	stmts := p.parseLoopBody()
	p.expect(token.END)
	p.expect(token.LOOP)
	if label != "" && p.cur.Kind == token.IDENT {
		p.advance()
	}
	p.expect(token.SEMICOLON)
	return &ast.LoopStmt{Token: tok, Label: label, Kind: kind, Cond: cond, Var: varName, Range: rangeExpr, Reverse: reverse, Stmts: stmts}
}

// Expr is a local alias to keep finishLoop's signature readable.
type Expr = ast.Expr

func (p *Parser) parsePlainLoop(label string) ast.Stmt {
	tok := p.cur
	return p.finishLoop(tok, label, ast.LoopPlain, nil, nil, nil, false)
}

func (p *Parser) parseWhileLoop(label string) ast.Stmt {
	tok := p.cur
	p.advance() // while
	cond := p.parseExpression(lowest)
	return p.finishLoop(tok, label, ast.LoopWhile, cond, nil, nil, false)
}

func (p *Parser) parseForLoop(label string) ast.Stmt {
	tok := p.cur
	p.advance() // for
	v := p.parseIdent()
	p.expect(token.IN)
	reverse := false
	if p.cur.Kind == token.REVERSE {
		reverse = true
		p.advance()
	}
	rangeExpr := p.parseExpressionOrRange()
	return p.finishLoop(tok, label, ast.LoopFor, nil, rangeExpr, v, reverse)
}

func (p *Parser) parseExitStmt() ast.Stmt {
	tok := p.cur
	p.advance() // exit
	es := &ast.ExitStmt{Token: tok}
	if p.cur.Kind == token.IDENT {
		es.Label = p.parseIdent()
	}
	if p.cur.Kind == token.WHEN {
		p.advance()
		es.Cond = p.parseExpression(lowest)
	}
	p.expect(token.SEMICOLON)
	return es
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	tok := p.cur
	p.advance() // return
	rs := &ast.ReturnStmt{Token: tok}
	if p.cur.Kind != token.SEMICOLON {
		rs.Value = p.parseExpression(lowest)
	}
	p.expect(token.SEMICOLON)
	return rs
}

func (p *Parser) parseRaiseStmt() ast.Stmt {
	tok := p.cur
	p.advance() // raise
	rs := &ast.RaiseStmt{Token: tok}
	if p.cur.Kind != token.SEMICOLON {
		rs.Name = p.parseDottedIdent()
		if p.cur.Kind == token.WITH {
			p.advance()
			rs.Message = p.parseExpression(lowest)
		}
	}
	p.expect(token.SEMICOLON)
	return rs
}

func (p *Parser) parseAcceptStmt() *ast.AcceptStmt {
	tok := p.cur
	p.advance() // accept
	entry := p.parseIdent()
	as := &ast.AcceptStmt{Token: tok, Entry: entry}
	if p.cur.Kind == token.LPAREN && p.isEntryIndex() {
		p.advance()
		as.Index = p.parseExpression(lowest)
		p.expect(token.RPAREN)
	}
	if p.cur.Kind == token.LPAREN {
		as.Params = p.parseParamList()
	}
	if p.cur.Kind == token.DO {
		p.advance()
		as.Body = p.parseLoopBody()
		p.expect(token.END)
		if p.cur.Kind == token.IDENT {
			p.advance()
		}
	}
	p.expect(token.SEMICOLON)
	return as
}

// isEntryIndex performs a limited lookahead to tell an entry-family index
// `(I)` from a parameter profile `(X : T)`: a profile always contains a
// colon before its closing paren.
func (p *Parser) isEntryIndex() bool {
	for n := 0; n < 8; n++ {
		t := p.peek(n)
		if t.Kind == token.RPAREN || t.Kind == token.EOF {
			return true
		}
		if t.Kind == token.COLON {
			return false
		}
	}
	return true
}

func (p *Parser) parseDelayStmt() ast.Stmt {
	tok := p.cur
	p.advance() // delay
	ds := &ast.DelayStmt{Token: tok}
	if p.cur.Kind == token.UNTIL {
		ds.Until = true
		p.advance()
	}
	ds.Value = p.parseExpression(lowest)
	p.expect(token.SEMICOLON)
	return ds
}

func (p *Parser) parseSelectStmt() ast.Stmt {
	tok := p.cur
	p.advance() // select
	ss := &ast.SelectStmt{Token: tok}
	ss.Arms = append(ss.Arms, p.parseSelectArm())
	for p.cur.Kind == token.OR {
		p.advance()
		if p.cur.Kind == token.TERMINATE {
			p.advance()
			p.expect(token.SEMICOLON)
			ss.Terminate = true
			continue
		}
		ss.Arms = append(ss.Arms, p.parseSelectArm())
	}
	if p.cur.Kind == token.ELSE {
		p.advance()
		ss.Else = p.parseLoopBody()
	}
	p.expect(token.END)
	p.expect(token.SELECT)
	p.expect(token.SEMICOLON)
	return ss
}

func (p *Parser) parseSelectArm() *ast.SelectArm {
	arm := &ast.SelectArm{}
	if p.cur.Kind == token.WHEN {
		p.advance()
		arm.Guard = p.parseExpression(lowest)
		p.expect(token.ARROW)
	}
	switch p.cur.Kind {
	case token.ACCEPT:
		arm.Accept = p.parseAcceptStmt()
	case token.DELAY:
		if ds, ok := p.parseDelayStmt().(*ast.DelayStmt); ok {
			arm.Delay = ds
		}
	}
	for p.cur.Kind != token.OR && p.cur.Kind != token.ELSE && p.cur.Kind != token.END && p.cur.Kind != token.EOF {
		arm.Stmts = append(arm.Stmts, p.parseStatement())
	}
	return arm
}

func (p *Parser) parseGotoStmt() ast.Stmt {
	tok := p.cur
	p.advance() // goto
	label := p.parseIdent()
	p.expect(token.SEMICOLON)
	return &ast.GotoStmt{Token: tok, Label: label}
}

// parseAssignOrCall parses `Name := Value;` or `Name[(args)];`, resolved
// between assignment and call/entry-call by the token following the name.
func (p *Parser) parseAssignOrCall() ast.Stmt {
	tok := p.cur
	target := p.parsePostfix()
	if p.cur.Kind == token.ASSIGN {
		p.advance()
		value := p.parseExpression(lowest)
		p.expect(token.SEMICOLON)
		return &ast.AssignStmt{Token: tok, Target: target, Value: value}
	}
	p.expect(token.SEMICOLON)
	return &ast.CallStmt{Token: tok, Call: target}
}
