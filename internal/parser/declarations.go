package parser

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/token"
)

// parseTypeMark parses a subtype mark with an optional trailing range or
// digits/delta constraint — the form used by object declarations,
// subtype declarations, and allocators.
func (p *Parser) parseTypeMark() ast.TypeExpr {
	switch p.cur.Kind {
	case token.ACCESS:
		return p.parseAccessType()
	case token.ARRAY:
		return p.parseArrayType()
	case token.RECORD, token.ABSTRACT, token.TAGGED, token.LIMITED:
		return p.parseRecordLikeType()
	case token.LPAREN:
		return p.parseEnumType()
	case token.MOD:
		tok := p.cur
		p.advance()
		return &ast.ModularType{Token: tok, Modulus: p.parseExpression(lowest)}
	case token.DELTA:
		return p.parseFixedType()
	case token.DIGITS:
		return p.parseFloatType()
	case token.NEW:
		return p.parseDerivedType()
	case token.PRIVATE:
		tok := p.cur
		p.advance()
		return &ast.PrivateType{Token: tok}
	case token.TASK, token.PROTECTED:
		return p.parseTaskTypeDef()
	default:
		name := p.parseDottedIdent()
		nt := &ast.NamedType{Name: name}
		if p.cur.Kind == token.RANGE && p.peek(0).Kind != token.BOX {
			p.advance()
			return &ast.SubtypeIndication{Base: nt, Constraint: p.mustRange()}
		}
		return nt
	}
}

func (p *Parser) parseEnumType() ast.TypeExpr {
	tok := p.cur
	p.advance() // (
	lits := p.parseNameList()
	p.expect(token.RPAREN)
	return &ast.EnumType{Token: tok, Literals: lits}
}

func (p *Parser) parseFloatType() ast.TypeExpr {
	tok := p.cur
	p.advance() // digits
	digits := p.parseExpression(lowest)
	ft := &ast.FloatType{Token: tok, Digits: digits}
	if p.cur.Kind == token.RANGE {
		p.advance()
		ft.Range = p.mustRange()
	}
	return ft
}

func (p *Parser) parseFixedType() ast.TypeExpr {
	tok := p.cur
	p.advance() // delta
	delta := p.parseExpression(lowest)
	ft := &ast.FixedType{Token: tok, Delta: delta}
	if p.cur.Kind == token.DIGITS {
		p.advance()
		ft.Digits = p.parseExpression(lowest)
	}
	if p.cur.Kind == token.RANGE {
		p.advance()
		ft.Range = p.mustRange()
	}
	return ft
}

func (p *Parser) mustRange() *ast.RangeConstraint {
	tok := p.cur
	low := p.parseExpression(lowest)
	p.expect(token.DOTDOT)
	high := p.parseExpression(lowest)
	return &ast.RangeConstraint{Token: tok, Low: low, High: high}
}

func (p *Parser) parseArrayType() ast.TypeExpr {
	tok := p.cur
	p.advance() // array
	p.expect(token.LPAREN)
	var indices []ast.TypeExpr
	var unbounded []bool
	for {
		idx := p.parseTypeMark()
		unb := false
		if p.cur.Kind == token.RANGE && p.peek(0).Kind == token.BOX {
			p.advance()
			p.advance()
			unb = true
		}
		indices = append(indices, idx)
		unbounded = append(unbounded, unb)
		if p.cur.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	p.expect(token.OF)
	component := p.parseTypeMark()
	return &ast.ArrayType{Token: tok, Indices: indices, Unbounded: unbounded, Component: component}
}

func (p *Parser) parseAccessType() ast.TypeExpr {
	tok := p.cur
	p.advance() // access
	at := &ast.AccessType{Token: tok}
	if p.cur.Kind == token.CONSTANT {
		at.Constant = true
		p.advance()
	}
	if p.cur.Kind == token.ALL {
		at.AllowsAll = true
		p.advance()
	}
	at.Designated = p.parseTypeMark()
	return at
}

func (p *Parser) parseDerivedType() ast.TypeExpr {
	tok := p.cur
	p.advance() // new
	parent := p.parseTypeMark()
	dt := &ast.DerivedType{Token: tok, Parent: parent}
	if p.cur.Kind == token.WITH {
		p.advance()
		if rec, ok := p.parseRecordLikeType().(*ast.RecordType); ok {
			dt.Extension = rec
		}
	}
	return dt
}

func (p *Parser) parseRecordLikeType() ast.TypeExpr {
	rt := &ast.RecordType{Token: p.cur}
	for p.cur.Kind == token.ABSTRACT || p.cur.Kind == token.TAGGED || p.cur.Kind == token.LIMITED {
		switch p.cur.Kind {
		case token.ABSTRACT:
			rt.Abstract = true
		case token.TAGGED:
			rt.Tagged = true
		case token.LIMITED:
			rt.Limited = true
		}
		p.advance()
	}
	if p.cur.Kind != token.RECORD {
		// `tagged null record` or just `private`/no record body
		if p.cur.Kind == token.NULL {
			p.advance()
			return rt
		}
		return rt
	}
	p.advance() // record
	for p.cur.Kind != token.END && p.cur.Kind != token.EOF {
		if p.cur.Kind == token.CASE {
			rt.Variant = p.parseVariantPart()
			continue
		}
		rt.Components = append(rt.Components, p.parseRecordComponent())
	}
	p.expect(token.END)
	p.expect(token.RECORD)
	return rt
}

func (p *Parser) parseRecordComponent() *ast.RecordComponent {
	names := p.parseNameList()
	p.expect(token.COLON)
	typ := p.parseTypeMark()
	rc := &ast.RecordComponent{Names: names, Type: typ}
	if p.cur.Kind == token.ASSIGN {
		p.advance()
		rc.Default = p.parseExpression(lowest)
	}
	p.expect(token.SEMICOLON)
	return rc
}

func (p *Parser) parseVariantPart() *ast.VariantPart {
	tok := p.cur
	p.advance() // case
	disc := p.parseIdent()
	p.expect(token.IS)
	vp := &ast.VariantPart{Token: tok, Discriminant: disc}
	for p.cur.Kind == token.WHEN {
		p.advance()
		choices := []ast.Expr{p.parseExpressionOrRange()}
		for p.cur.Kind == token.PIPE {
			p.advance()
			choices = append(choices, p.parseExpressionOrRange())
		}
		p.expect(token.ARROW)
		v := &ast.Variant{Choices: choices}
		for p.cur.Kind != token.WHEN && p.cur.Kind != token.END && p.cur.Kind != token.EOF {
			if p.cur.Kind == token.CASE {
				v.Nested = p.parseVariantPart()
				continue
			}
			v.Components = append(v.Components, p.parseRecordComponent())
		}
		vp.Variants = append(vp.Variants, v)
	}
	p.expect(token.END)
	p.expect(token.CASE)
	p.expect(token.SEMICOLON)
	return vp
}

func (p *Parser) parseDiscriminants() []*ast.Discriminant {
	p.expect(token.LPAREN)
	var discs []*ast.Discriminant
	for {
		names := p.parseNameList()
		p.expect(token.COLON)
		typ := p.parseTypeMark()
		d := &ast.Discriminant{Names: names, Type: typ}
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			d.Default = p.parseExpression(lowest)
		}
		discs = append(discs, d)
		if p.cur.Kind != token.SEMICOLON {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return discs
}

func (p *Parser) parseTaskTypeDef() ast.TypeExpr {
	tok := p.cur
	protected := p.cur.Kind == token.PROTECTED
	p.advance()
	tt := &ast.TaskType{Token: tok, Protected: protected}
	if p.cur.Kind == token.IS {
		p.advance()
		for p.cur.Kind == token.ENTRY {
			tt.Entries = append(tt.Entries, p.parseEntryDecl())
		}
	}
	return tt
}

func (p *Parser) parseEntryDecl() *ast.EntryDecl {
	tok := p.cur
	p.advance() // entry
	name := p.parseIdent()
	e := &ast.EntryDecl{Token: tok, Name: name}
	if p.cur.Kind == token.LPAREN {
		e.Params = p.parseParamList()
	}
	p.expect(token.SEMICOLON)
	return e
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for {
		names := p.parseNameList()
		p.expect(token.COLON)
		mode := ast.ModeIn
		switch p.cur.Kind {
		case token.OUT:
			mode = ast.ModeOut
			p.advance()
		case token.IN:
			p.advance()
			if p.cur.Kind == token.OUT {
				mode = ast.ModeInOut
				p.advance()
			}
		}
		typ := p.parseTypeMark()
		param := &ast.Param{Names: names, Mode: mode, Type: typ}
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			param.Default = p.parseExpression(lowest)
		}
		params = append(params, param)
		if p.cur.Kind != token.SEMICOLON {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params
}

// parseDeclarativePart parses a sequence of declarations up to (but not
// including) one of the terminator keywords begin/end/private/EOF.
func (p *Parser) parseDeclarativePart() ast.DeclList {
	var decls ast.DeclList
	for {
		switch p.cur.Kind {
		case token.BEGIN, token.END, token.PRIVATE, token.EOF:
			return decls
		}
		d := p.parseDeclaration()
		if d != nil {
			decls = append(decls, d)
		} else {
			p.resynchronize()
		}
	}
}

// parseDeclaration parses exactly one declarative item.
func (p *Parser) parseDeclaration() ast.Decl {
	switch p.cur.Kind {
	case token.TYPE:
		return p.parseTypeDecl()
	case token.SUBTYPE:
		return p.parseSubtypeDecl()
	case token.PROCEDURE, token.FUNCTION:
		if p.peek(1).Kind == token.IS && p.peek(2).Kind == token.NEW {
			return p.parseGenericInstantiation()
		}
		if p.cur.Kind == token.FUNCTION {
			return p.parseFunctionRenamingLookahead()
		}
		return p.parseSubprogram()
	case token.PACKAGE:
		if p.peek(0).Kind == token.BODY {
			return p.parsePackageBody()
		}
		if p.peek(1).Kind == token.IS && p.peek(2).Kind == token.NEW {
			return p.parseGenericInstantiation()
		}
		return p.parsePackage()
	case token.GENERIC:
		return p.parseGenericDecl()
	case token.USE:
		return p.parseUseClause()
	case token.TASK:
		return p.parseTaskDeclOrBody()
	case token.PROTECTED:
		return p.parseProtectedDeclOrBody()
	case token.IDENT:
		return p.parseObjectOrRenaming()
	default:
		p.errorf("unexpected token %q in declarative part", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseFunctionRenamingLookahead() ast.Decl {
	// function Name (...) return T renames Other; vs ordinary body/spec —
	// both share a SubprogramSpec prefix, so parse that first and branch.
	spec := p.parseSubprogramSpec()
	if p.cur.Kind == token.RENAMES {
		p.advance()
		of := p.parseExpression(lowest)
		p.expect(token.SEMICOLON)
		return &ast.RenamingDecl{Token: spec.Token, Spec: spec, Of: of}
	}
	return p.finishSubprogram(spec)
}

func (p *Parser) parseTypeDecl() ast.Decl {
	tok := p.cur
	p.advance() // type
	name := p.parseIdent()
	var discs []*ast.Discriminant
	if p.cur.Kind == token.LPAREN {
		discs = p.parseDiscriminants()
	}
	if p.cur.Kind == token.SEMICOLON {
		p.advance()
		return &ast.IncompleteTypeDecl{Token: tok, Name: name}
	}
	p.expect(token.IS)
	def := p.parseTypeMark()
	p.expect(token.SEMICOLON)
	return &ast.TypeDecl{Token: tok, Name: name, Discriminants: discs, Definition: def}
}

func (p *Parser) parseSubtypeDecl() ast.Decl {
	tok := p.cur
	p.advance() // subtype
	name := p.parseIdent()
	p.expect(token.IS)
	base := p.parseTypeMark()
	var constraint ast.TypeExpr
	if si, ok := base.(*ast.SubtypeIndication); ok {
		base = si.Base
		constraint = si.Constraint
	}
	p.expect(token.SEMICOLON)
	return &ast.SubtypeDecl{Token: tok, Name: name, Base: base, Constraint: constraint}
}

func (p *Parser) parseUseClause() ast.Decl {
	tok := p.cur
	p.advance() // use
	names := p.parseNameList()
	p.expect(token.SEMICOLON)
	return &ast.UseClause{Token: tok, Names: names}
}

// parseObjectOrRenaming handles the declarations that begin with an
// identifier list: object declarations, exception declarations, and
// object renaming declarations.
func (p *Parser) parseObjectOrRenaming() ast.Decl {
	tok := p.cur
	names := p.parseNameList()
	p.expect(token.COLON)
	if p.cur.Kind == token.EXCEPTION {
		p.advance()
		p.expect(token.SEMICOLON)
		return &ast.ExceptionDecl{Token: tok, Names: names}
	}
	constant := false
	if p.cur.Kind == token.CONSTANT {
		constant = true
		p.advance()
	}
	typ := p.parseTypeMark()
	if p.cur.Kind == token.RENAMES {
		p.advance()
		of := p.parseExpression(lowest)
		p.expect(token.SEMICOLON)
		return &ast.RenamingDecl{Token: tok, Name: names[0], Type: typ, Of: of}
	}
	od := &ast.ObjectDecl{Token: tok, Names: names, Type: typ, Constant: constant}
	if p.cur.Kind == token.ASSIGN {
		p.advance()
		od.Init = p.parseExpression(lowest)
	}
	p.expect(token.SEMICOLON)
	return od
}

func (p *Parser) parseSubprogramSpec() *ast.SubprogramSpec {
	tok := p.cur
	isFunc := p.cur.Kind == token.FUNCTION
	p.advance()
	var name *ast.Ident
	if p.cur.Kind == token.STRINGLIT {
		// Overloaded operator symbol, e.g. function "+" (...).
		litTok := p.cur
		p.advance()
		name = &ast.Ident{Token: litTok, Name: litTok.Literal}
	} else {
		name = p.parseIdent()
	}
	spec := &ast.SubprogramSpec{Token: tok, Name: name, IsFunction: isFunc}
	if p.cur.Kind == token.LPAREN {
		spec.Params = p.parseParamList()
	}
	if isFunc {
		p.expect(token.RETURN)
		spec.ReturnType = p.parseTypeMark()
	}
	return spec
}

// parseSubprogram parses a subprogram declaration or body, distinguished
// by whether `is` introduces a declarative part or the construct ends at
// `;`/`renames`.
func (p *Parser) parseSubprogram() ast.Decl {
	spec := p.parseSubprogramSpec()
	return p.finishSubprogram(spec)
}

func (p *Parser) finishSubprogram(spec *ast.SubprogramSpec) ast.Decl {
	switch p.cur.Kind {
	case token.SEMICOLON:
		p.advance()
		return spec
	case token.RENAMES:
		p.advance()
		of := p.parseExpression(lowest)
		p.expect(token.SEMICOLON)
		return &ast.RenamingDecl{Token: spec.Token, Spec: spec, Of: of}
	case token.IS:
		p.advance()
		decls := p.parseDeclarativePart()
		body := p.parseBlock(token.BEGIN)
		p.expectEndName(spec.Name)
		return &ast.SubprogramBody{Spec: spec, Decls: decls, Body: body}
	default:
		p.errorf("expected ';', 'is', or 'renames' after subprogram spec, got %q", p.cur.Literal)
		p.resynchronize()
		return spec
	}
}

func (p *Parser) parsePackage() ast.Decl {
	tok := p.cur
	p.advance() // package
	name := p.parseIdent()
	p.expect(token.IS)
	visible := p.parseDeclarativePart()
	ps := &ast.PackageSpec{Token: tok, Name: name, Visible: visible}
	if p.cur.Kind == token.PRIVATE {
		p.advance()
		ps.PrivateDecls = p.parseDeclarativePart()
	}
	p.expectEndName(name)
	return ps
}

func (p *Parser) parsePackageBody() ast.Decl {
	tok := p.cur
	p.advance() // package
	p.expect(token.BODY)
	name := p.parseIdent()
	p.expect(token.IS)
	decls := p.parseDeclarativePart()
	pb := &ast.PackageBody{Token: tok, Name: name, Decls: decls}
	if p.cur.Kind == token.BEGIN {
		pb.Init = p.parseBlock(token.BEGIN)
	}
	p.expectEndName(name)
	return pb
}

func (p *Parser) parseTaskDeclOrBody() ast.Decl {
	tok := p.cur
	p.advance() // task
	if p.cur.Kind == token.BODY {
		p.advance()
		name := p.parseIdent()
		p.expect(token.IS)
		decls := p.parseDeclarativePart()
		body := p.parseBlock(token.BEGIN)
		p.expectEndName(name)
		return &ast.TaskBody{Token: tok, Name: name, Decls: decls, Body: body}
	}
	isType := false
	if p.cur.Kind == token.TYPE {
		isType = true
		p.advance()
	}
	name := p.parseIdent()
	td := &ast.TaskDecl{Token: tok, Name: name, IsType: isType}
	if p.cur.Kind == token.IS {
		p.advance()
		tt := &ast.TaskType{Token: tok}
		for p.cur.Kind == token.ENTRY {
			tt.Entries = append(tt.Entries, p.parseEntryDecl())
		}
		td.Def = tt
		p.expectEndName(name)
	} else {
		p.expect(token.SEMICOLON)
	}
	return td
}

func (p *Parser) parseProtectedDeclOrBody() ast.Decl {
	tok := p.cur
	p.advance() // protected
	if p.cur.Kind == token.BODY {
		p.advance()
		name := p.parseIdent()
		p.expect(token.IS)
		decls := p.parseDeclarativePart()
		p.expectEndName(name)
		return &ast.PackageBody{Token: tok, Name: name, Decls: decls}
	}
	if p.cur.Kind == token.TYPE {
		p.advance()
	}
	name := p.parseIdent()
	p.expect(token.IS)
	tt := &ast.TaskType{Token: tok, Protected: true}
	for p.cur.Kind == token.ENTRY {
		tt.Entries = append(tt.Entries, p.parseEntryDecl())
	}
	p.expectEndName(name)
	return &ast.TypeDecl{Token: tok, Name: name, Definition: tt}
}

func (p *Parser) parseGenericDecl() ast.Decl {
	tok := p.cur
	p.advance() // generic
	var formals []*ast.GenericFormal
	for p.cur.Kind != token.PACKAGE && p.cur.Kind != token.PROCEDURE && p.cur.Kind != token.FUNCTION && p.cur.Kind != token.EOF {
		formals = append(formals, p.parseGenericFormal())
	}
	body := p.parseLibraryItem()
	return &ast.GenericDecl{Token: tok, Formals: formals, Body: body}
}

func (p *Parser) parseGenericFormal() *ast.GenericFormal {
	tok := p.cur
	switch p.cur.Kind {
	case token.TYPE:
		p.advance()
		name := p.parseIdent()
		p.expect(token.IS)
		def := p.parseTypeMark()
		p.expect(token.SEMICOLON)
		return &ast.GenericFormal{Token: tok, Name: name, IsType: true, TypeDef: def}
	case token.PROCEDURE, token.FUNCTION:
		spec := p.parseSubprogramSpec()
		p.expect(token.SEMICOLON)
		return &ast.GenericFormal{Token: tok, Name: spec.Name, SubSpec: spec}
	default:
		names := p.parseNameList()
		p.expect(token.COLON)
		typ := p.parseTypeMark()
		p.expect(token.SEMICOLON)
		return &ast.GenericFormal{Token: tok, Name: names[0], ObjectType: typ}
	}
}

func (p *Parser) parseGenericInstantiation() ast.Decl {
	tok := p.cur
	isFunc := p.cur.Kind == token.FUNCTION
	isPkg := p.cur.Kind == token.PACKAGE
	p.advance()
	name := p.parseIdent()
	p.expect(token.IS)
	p.expect(token.NEW)
	generic := p.parseDottedIdent()
	var actuals []*ast.GenericActual
	if p.cur.Kind == token.LPAREN {
		p.advance()
		for {
			if p.cur.Kind == token.IDENT && p.peek(0).Kind == token.ARROW {
				formal := p.parseIdent()
				p.advance() // =>
				actuals = append(actuals, &ast.GenericActual{Formal: formal, Value: p.parseExpression(lowest)})
			} else {
				actuals = append(actuals, &ast.GenericActual{Value: p.parseExpression(lowest)})
			}
			if p.cur.Kind != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.RPAREN)
	}
	p.expect(token.SEMICOLON)
	return &ast.GenericInstantiation{Token: tok, Name: name, Generic: generic, Actuals: actuals, IsFunction: isFunc, IsPackage: isPkg}
}
