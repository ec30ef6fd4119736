package parser

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/token"
)

// parseExpression is the Pratt-style entry point; minPrec is the lowest
// binding power the caller will accept for a trailing infix operator.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		op, shortCircuit, negated, ok := p.peekBinaryOp()
		if !ok {
			break
		}
		prec := binaryPrecedence[op]
		if shortCircuit {
			prec = precShortCirc
		}
		if prec < minPrec {
			break
		}
		tok := p.cur
		p.consumeBinaryOp(shortCircuit, negated)
		// Right-associative only for **, otherwise left-associative: bind
		// strictly tighter on the right to prevent re-consuming same-level ops.
		nextMin := prec + 1
		if op == token.STARSTAR {
			nextMin = prec
		}
		right := p.parseExpression(nextMin)
		left = &ast.BinaryExpr{Token: tok, Left: left, Op: op, Right: right, ShortCircuit: shortCircuit, Negated: negated}
	}
	return left
}

// peekBinaryOp reports the operator at the cursor without consuming it,
// folding the two-keyword short-circuit and membership forms into a
// single logical operator.
func (p *Parser) peekBinaryOp() (op token.Kind, shortCircuit bool, negated bool, ok bool) {
	switch p.cur.Kind {
	case token.AND:
		if p.peek(0).Kind == token.THEN {
			return token.AND, true, false, true
		}
		return token.AND, false, false, true
	case token.OR:
		if p.peek(0).Kind == token.ELSE {
			return token.OR, true, false, true
		}
		return token.OR, false, false, true
	case token.NOT:
		if p.peek(0).Kind == token.IN {
			return token.IN, false, true, true
		}
		return token.ILLEGAL, false, false, false
	case token.IN:
		return token.IN, false, false, true
	}
	if _, found := binaryPrecedence[p.cur.Kind]; found {
		return p.cur.Kind, false, false, true
	}
	return token.ILLEGAL, false, false, false
}

func (p *Parser) consumeBinaryOp(shortCircuit, negated bool) {
	if negated {
		p.advance() // not
		p.advance() // in
		return
	}
	p.advance()
	if shortCircuit {
		p.advance() // then / else
	}
}

// parseUnary handles the unary operators and the exponentiation operand,
// which binds tighter than unary minus (`**` above `unary +/-/not/abs`).
func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.PLUS, token.MINUS, token.NOT, token.ABS:
		tok := p.cur
		op := p.cur.Kind
		p.advance()
		operand := p.parseUnaryOperand()
		return &ast.UnaryExpr{Token: tok, Op: op, Operand: operand}
	}
	return p.parsePower()
}

func (p *Parser) parseUnaryOperand() ast.Expr {
	if p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS || p.cur.Kind == token.NOT || p.cur.Kind == token.ABS {
		return p.parseUnary()
	}
	return p.parsePower()
}

// parsePower binds a postfix-parsed primary to an optional `** exponent`.
func (p *Parser) parsePower() ast.Expr {
	left := p.parsePostfix()
	if p.cur.Kind == token.STARSTAR {
		tok := p.cur
		p.advance()
		right := p.parseUnary()
		return &ast.BinaryExpr{Token: tok, Left: left, Op: token.STARSTAR, Right: right}
	}
	return left
}

// parsePostfix parses a primary followed by any chain of `.Selector`,
// `'Attribute[(args)]`, or `(args)` suffixes.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.DOT:
			tok := p.cur
			p.advance()
			sel := p.parseIdent()
			expr = &ast.SelectorExpr{Token: tok, Prefix: expr, Selector: sel}
		case token.APOSTROPHE:
			p.advance()
			attr := p.parseIdent()
			var args []ast.Expr
			if p.cur.Kind == token.LPAREN {
				p.advance()
				args = p.parseExprList()
				p.expect(token.RPAREN)
			}
			expr = &ast.AttrExpr{Token: attr.Token, Prefix: expr, Attribute: attr, Args: args}
		case token.LPAREN:
			expr = p.parseCallOrAggregateSuffix(expr)
		default:
			return expr
		}
	}
}

// parseCallOrAggregateSuffix parses the `(args)` suffix on a prefix
// expression, recognizing the single-range-argument slice form.
func (p *Parser) parseCallOrAggregateSuffix(callee ast.Expr) ast.Expr {
	tok := p.cur
	p.advance()
	if p.cur.Kind == token.RPAREN {
		p.advance()
		return &ast.CallExpr{Token: tok, Callee: callee}
	}
	args := p.parseArgumentList()
	p.expect(token.RPAREN)
	if len(args) == 1 && args[0].Name == nil {
		if rng, ok := args[0].Value.(*ast.BinaryExpr); ok && rng.Op == token.DOTDOT {
			return &ast.SliceExpr{Token: tok, Prefix: callee, Low: rng.Left, High: rng.Right}
		}
	}
	return &ast.CallExpr{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseArgumentList() []*ast.Argument {
	var args []*ast.Argument
	args = append(args, p.parseArgument())
	for p.cur.Kind == token.COMMA {
		p.advance()
		args = append(args, p.parseArgument())
	}
	return args
}

func (p *Parser) parseArgument() *ast.Argument {
	// Named association lookahead: `Ident => expr`.
	if p.cur.Kind == token.IDENT && p.peek(0).Kind == token.ARROW {
		name := p.parseIdent()
		p.advance() // =>
		return &ast.Argument{Name: name, Value: p.parseExpressionOrRange()}
	}
	return &ast.Argument{Value: p.parseExpressionOrRange()}
}

// parseExpressionOrRange parses a full expression, folding a trailing
// `.. high` into a BinaryExpr(DOTDOT) usable as a discrete range in slice
// bounds, for-loop ranges, and case choices.
func (p *Parser) parseExpressionOrRange() ast.Expr {
	left := p.parseExpression(lowest)
	if p.cur.Kind == token.DOTDOT {
		tok := p.cur
		p.advance()
		right := p.parseExpression(lowest)
		return &ast.BinaryExpr{Token: tok, Left: left, Op: token.DOTDOT, Right: right}
	}
	return left
}

func (p *Parser) parseExprList() []ast.Expr {
	var list []ast.Expr
	list = append(list, p.parseExpressionOrRange())
	for p.cur.Kind == token.COMMA {
		p.advance()
		list = append(list, p.parseExpressionOrRange())
	}
	return list
}

// parsePrimary parses literals, names, parenthesized/aggregate
// expressions, qualified expressions, allocators, and the Ada 2012
// conditional expression forms.
func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.INT:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: ast.LitInt, Value: tok.Literal}
	case token.REAL:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: ast.LitReal, Value: tok.Literal}
	case token.STRINGLIT:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: ast.LitString, Value: tok.Literal}
	case token.CHARLIT:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: ast.LitChar, Value: tok.Literal}
	case token.NULL:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: ast.LitNull}
	case token.OTHERS:
		tok := p.cur
		p.advance()
		return &ast.OthersExpr{Token: tok}
	case token.NEW:
		return p.parseAllocator()
	case token.LPAREN:
		return p.parseParenExpr()
	case token.IDENT:
		name := p.parseDottedIdent()
		if p.cur.Kind == token.APOSTROPHE && p.peek(0).Kind == token.LPAREN {
			// Qualified expression `Subtype'(Expr)`.
			p.advance() // '
			p.advance() // (
			val := p.parseExpressionOrRange()
			p.expect(token.RPAREN)
			return &ast.QualifiedExpr{Token: name.Token, TypeMark: name, Value: val}
		}
		return name
	default:
		if p.cur.Kind.IsKeyword() {
			// Operator-symbol subprogram names and reserved identifiers used
			// as enumeration literals (e.g. function "+" (...)) degrade to a
			// plain identifier.
			name := p.parseIdent()
			return name
		}
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		tok := p.cur
		p.resynchronize()
		return &ast.Literal{Token: tok, Kind: ast.LitNull}
	}
}

// parseParenExpr disambiguates a grouping expression from an aggregate
// and from the Ada 2012 `(if ...)` / `(case ...)` expression forms.
func (p *Parser) parseParenExpr() ast.Expr {
	tok := p.cur
	p.advance()
	switch p.cur.Kind {
	case token.IF:
		return p.finishIfExpr(tok)
	case token.CASE:
		return p.finishCaseExpr(tok)
	}
	first := p.parseAggregateElementOrExpr()
	if p.cur.Kind == token.RPAREN && !first.isAssociation {
		p.advance()
		return first.expr
	}
	return p.finishAggregate(tok, first)
}

// aggElem is one already-parsed element while disambiguating a
// parenthesized expression from an aggregate.
type aggElem struct {
	expr          ast.Expr
	assoc         *ast.Association
	isAssociation bool
}

func (p *Parser) parseAggregateElementOrExpr() aggElem {
	if p.cur.Kind == token.OTHERS {
		tok := p.cur
		p.advance()
		p.expect(token.ARROW)
		val := p.parseExpressionOrRange()
		return aggElem{assoc: &ast.Association{Others: true, Value: val}, isAssociation: true, expr: &ast.OthersExpr{Token: tok}}
	}
	start := p.parseExpressionOrRange()
	if p.cur.Kind == token.ARROW {
		p.advance()
		val := p.parseExpressionOrRange()
		return aggElem{assoc: &ast.Association{Choices: []ast.Expr{start}, Value: val}, isAssociation: true}
	}
	if p.cur.Kind == token.PIPE {
		choices := []ast.Expr{start}
		for p.cur.Kind == token.PIPE {
			p.advance()
			choices = append(choices, p.parseExpressionOrRange())
		}
		p.expect(token.ARROW)
		val := p.parseExpressionOrRange()
		return aggElem{assoc: &ast.Association{Choices: choices, Value: val}, isAssociation: true}
	}
	return aggElem{expr: start}
}

func (p *Parser) finishAggregate(tok token.Token, first aggElem) ast.Expr {
	agg := &ast.AggregateExpr{Token: tok}
	agg.Associations = append(agg.Associations, toAssociation(first))
	for p.cur.Kind == token.COMMA {
		p.advance()
		elem := p.parseAggregateElementOrExpr()
		agg.Associations = append(agg.Associations, toAssociation(elem))
	}
	p.expect(token.RPAREN)
	return agg
}

func toAssociation(e aggElem) *ast.Association {
	if e.isAssociation {
		return e.assoc
	}
	return &ast.Association{Value: e.expr}
}

func (p *Parser) finishIfExpr(tok token.Token) ast.Expr {
	p.advance() // if
	cond := p.parseExpression(lowest)
	p.expect(token.THEN)
	thenVal := p.parseExpression(lowest)
	ie := &ast.IfExpr{Token: tok, Cond: cond, Then: thenVal}
	for p.cur.Kind == token.ELSIF {
		p.advance()
		c := p.parseExpression(lowest)
		p.expect(token.THEN)
		v := p.parseExpression(lowest)
		ie.Elifs = append(ie.Elifs, &ast.ElifExprArm{Cond: c, Value: v})
	}
	if p.cur.Kind == token.ELSE {
		p.advance()
		ie.Else = p.parseExpression(lowest)
	}
	p.expect(token.RPAREN)
	return ie
}

func (p *Parser) finishCaseExpr(tok token.Token) ast.Expr {
	p.advance() // case
	subj := p.parseExpression(lowest)
	p.expect(token.IS)
	ce := &ast.CaseExpr{Token: tok, Subj: subj}
	for p.cur.Kind == token.WHEN {
		p.advance()
		choices := []ast.Expr{p.parseExpressionOrRange()}
		for p.cur.Kind == token.PIPE {
			p.advance()
			choices = append(choices, p.parseExpressionOrRange())
		}
		p.expect(token.ARROW)
		val := p.parseExpression(lowest)
		ce.Arms = append(ce.Arms, &ast.CaseExprArm{Choices: choices, Value: val})
		if p.cur.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return ce
}

func (p *Parser) parseAllocator() ast.Expr {
	tok := p.cur
	p.advance() // new
	typeMark := p.parseTypeMark()
	var init ast.Expr
	if p.cur.Kind == token.APOSTROPHE {
		p.advance()
		p.expect(token.LPAREN)
		init = p.parseExpressionOrRange()
		p.expect(token.RPAREN)
	}
	return &ast.AllocatorExpr{Token: tok, TypeMark: typeMark, Init: init}
}
